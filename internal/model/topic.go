package model

import "time"

var (
	OrderCreatedTopic = "ORDER_CREATED"
	WinnersDrawnTopic = "WINNERS_DRAWN"
)

type OrderCreatedEvent struct {
	OrderID       string    `json:"order_id"`
	CompetitionID string    `json:"competition_id"`
	UserID        string    `json:"user_id"`
	Quantity      int       `json:"quantity"`
	FirstNumber   int       `json:"first_number"`
	CreatedAt     time.Time `json:"created_at"`
}

type WinnersDrawnEvent struct {
	CompetitionID string   `json:"competition_id"`
	WinnerIDs     []string `json:"winner_ids"`
}
