package statistic

import (
	"fmt"

	"github.com/rafflehub/backend/internal/entity"
)

func redisKeyTicketLeaderBoard(competitionID string, period entity.LeaderBoardPeriodType) string {
	return fmt.Sprintf("%s:tickets:%s", competitionID, period.Period())
}

func redisKeySpentLeaderBoard(competitionID string, period entity.LeaderBoardPeriodType) string {
	return fmt.Sprintf("%s:spent:%s", competitionID, period.Period())
}

func redisKeyLeaderBoard(orderedBy, competitionID string, period entity.LeaderBoardPeriodType) (string, error) {
	switch orderedBy {
	case "tickets":
		return redisKeyTicketLeaderBoard(competitionID, period), nil
	case "spent":
		return redisKeySpentLeaderBoard(competitionID, period), nil
	}

	return "", fmt.Errorf("expected ordered by tickets or spent, but got %s", orderedBy)
}
