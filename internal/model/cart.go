package model

type CartItem struct {
	CompetitionHandle string `json:"competition_handle"`
	Quantity          int    `json:"quantity"`
	QuestionID        string `json:"question_id"`
	Answer            string `json:"answer"`
}

type AddToCartRequest struct {
	CompetitionHandle string `json:"competition_handle"`
	Quantity          int    `json:"quantity"`
	QuestionID        string `json:"question_id"`
	Answer            string `json:"answer"`
}

type AddToCartResponse struct {
	Items []CartItem `json:"items"`
}

type GetCartRequest struct{}

type GetCartResponse struct {
	Items []CartItem `json:"items"`
}

type ClearCartRequest struct{}

type ClearCartResponse struct{}

type CheckoutCartRequest struct{}

type CheckoutCartResponse struct {
	Orders []BuyTicketsResponse `json:"orders"`
}
