package model

type SaleEvent struct {
	User        ShortUser `json:"user,omitempty"`
	Quantity    int       `json:"quantity"`
	FirstNumber int       `json:"first_number"`
	CreatedAt   string    `json:"created_at"`
}

type GetRecentSalesRequest struct {
	CompetitionHandle string `json:"competition_handle"`
	Limit             int    `json:"limit"`
}

type GetRecentSalesResponse struct {
	Sales []SaleEvent `json:"sales"`
}

// ServeFeedRequest opens the live feed channel of a competition.
type ServeFeedRequest struct {
	CompetitionHandle string `json:"competition_handle"`
}

var (
	SaleFeedEvent    = "sale"
	WinnersFeedEvent = "winners"
)

// FeedEvent is one frame pushed over the live feed websocket.
type FeedEvent struct {
	Type    string     `json:"type"`
	Sale    *SaleEvent `json:"sale,omitempty"`
	Winners []Winner   `json:"winners,omitempty"`
}
