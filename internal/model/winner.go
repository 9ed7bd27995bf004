package model

type Winner struct {
	ID           string      `json:"id"`
	Competition  Competition `json:"competition,omitempty"`
	Prize        Prize       `json:"prize,omitempty"`
	TicketNumber int         `json:"ticket_number"`
	User         ShortUser   `json:"user,omitempty"`
	IsClaimed    bool        `json:"is_claimed"`
	CreatedAt    string      `json:"created_at"`
}

type DrawWinnersRequest struct {
	CompetitionHandle string `json:"competition_handle"`
}

type DrawWinnersResponse struct {
	Winners []Winner `json:"winners"`
}

type GetWinnersRequest struct {
	CompetitionHandle string `json:"competition_handle"`
}

type GetWinnersResponse struct {
	Winners []Winner `json:"winners"`
}

type GetMyWinningsRequest struct{}

type GetMyWinningsResponse struct {
	Winners []Winner `json:"winners"`
}

type ClaimRewardRequest struct {
	WinnerID string `json:"winner_id"`
}

type ClaimRewardResponse struct{}
