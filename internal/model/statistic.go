package model

type BuyerStatistic struct {
	User        ShortUser `json:"user"`
	Value       float64   `json:"value"`
	CurrentRank uint64    `json:"current_rank"`
}

type GetLeaderBoardRequest struct {
	CompetitionHandle string `json:"competition_handle"`
	OrderedBy         string `json:"ordered_by"`
	Period            string `json:"period"`
	Offset            int    `json:"offset"`
	Limit             int    `json:"limit"`
}

type GetLeaderBoardResponse struct {
	LeaderBoard []BuyerStatistic `json:"leaderboard"`
}

type GetMyRankRequest struct {
	CompetitionHandle string `json:"competition_handle"`
	OrderedBy         string `json:"ordered_by"`
	Period            string `json:"period"`
}

type GetMyRankResponse struct {
	Rank uint64 `json:"rank"`
}
