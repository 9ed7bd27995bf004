package entity

import "time"

// SaleEvent is an activity row written to ScyllaDB by the subscriber when
// an order completes. It feeds the recent-sales ticker on competition pages.
type SaleEvent struct {
	ID            int64
	CompetitionID string
	Bucket        int64
	UserID        string
	Quantity      int
	FirstNumber   int
	CreatedAt     time.Time
}

func (e *SaleEvent) TableName() string {
	return "sale_events"
}
