package common

import "fmt"

// RedisKeyTrendingCompetitions is the sorted set of competition ids scored by
// recently sold tickets.
const RedisKeyTrendingCompetitions = "trending:competitions"

func RedisKeyCompetitionViewers(competitionID string) string {
	return fmt.Sprintf("viewers:%s", competitionID)
}
