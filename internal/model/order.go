package model

type Order struct {
	ID            string      `json:"id"`
	User          ShortUser   `json:"user,omitempty"`
	Competition   Competition `json:"competition,omitempty"`
	Quantity      int         `json:"quantity"`
	TicketNumbers []int       `json:"ticket_numbers"`
	TotalPrice    float64     `json:"total_price"`
	Status        string      `json:"status"`
	CreatedAt     string      `json:"created_at"`
}

type BuyTicketsRequest struct {
	CompetitionHandle string `json:"competition_handle"`
	Quantity          int    `json:"quantity"`
	QuestionID        string `json:"question_id"`
	Answer            string `json:"answer"`
}

type BuyTicketsResponse struct {
	OrderID       string  `json:"order_id"`
	TicketNumbers []int   `json:"ticket_numbers"`
	TotalPrice    float64 `json:"total_price"`
}

type GetOrderRequest struct {
	ID string `json:"id"`
}

type GetOrderResponse struct {
	Order Order `json:"order"`
}

type GetMyOrdersRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyOrdersResponse struct {
	Orders []Order `json:"orders"`
}
