package model

import "time"

type Reward struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type Prize struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Position         int      `json:"position"`
	Rewards          []Reward `json:"rewards"`
	AvailableRewards int      `json:"available_rewards"`
	WonRewards       int      `json:"won_rewards"`
}

type CompetitionImage struct {
	ID       string `json:"id"`
	Url      string `json:"url"`
	Width    int    `json:"width"`
	Position int    `json:"position"`
}

type Competition struct {
	ID              string             `json:"id"`
	Handle          string             `json:"handle"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	ImageURL        string             `json:"image_url,omitempty"`
	Category        Category           `json:"category,omitempty"`
	CreatedBy       string             `json:"created_by,omitempty"`
	NumberOfEntries int                `json:"number_of_entries"`
	SoldCount       int64              `json:"sold_count"`
	TicketPrice     float64            `json:"ticket_price"`
	MaxPerUser      int                `json:"max_per_user"`
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	Status          string             `json:"status"`
	DrawSeedDigest  string             `json:"draw_seed_digest,omitempty"`
	TrendingScore   int                `json:"trending_score,omitempty"`
	Viewers         uint64             `json:"viewers,omitempty"`
	Images          []CompetitionImage `json:"images,omitempty"`
	Questions       []Question         `json:"questions,omitempty"`
	Prizes          []Prize            `json:"prizes,omitempty"`
	RecentSales     []SaleEvent        `json:"recent_sales,omitempty"`
}

type CreateCompetitionRequest struct {
	CategoryID      string    `json:"category_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"image_url"`
	NumberOfEntries int       `json:"number_of_entries"`
	TicketPrice     float64   `json:"ticket_price"`
	MaxPerUser      int       `json:"max_per_user"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Questions       []struct {
		Text    string   `json:"text"`
		Options []string `json:"options"`
		Answer  string   `json:"answer"`
	} `json:"questions"`
	Prizes []struct {
		Title            string   `json:"title"`
		Description      string   `json:"description"`
		Position         int      `json:"position"`
		Rewards          []Reward `json:"rewards"`
		AvailableRewards int      `json:"available_rewards"`
	} `json:"prizes"`
}

type CreateCompetitionResponse struct {
	Competition Competition `json:"competition"`
}

type GetCompetitionRequest struct {
	CompetitionHandle string `json:"competition_handle"`
}

type GetCompetitionResponse struct {
	Competition Competition `json:"competition"`
}

type GetListCompetitionRequest struct {
	Q          string `json:"q"`
	CategoryID string `json:"category_id"`
	Status     string `json:"status"`
	ByTrending bool   `json:"by_trending"`
	Offset     int    `json:"offset"`
	Limit      int    `json:"limit"`
}

type GetListCompetitionResponse struct {
	Competitions []Competition `json:"competitions"`
}

type UpdateCompetitionByIDRequest struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	TicketPrice float64   `json:"ticket_price"`
	MaxPerUser  int       `json:"max_per_user"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

type UpdateCompetitionByIDResponse struct{}

type StartCompetitionRequest struct {
	CompetitionHandle string `json:"competition_handle"`
}

type StartCompetitionResponse struct{}

type CancelCompetitionRequest struct {
	CompetitionHandle string `json:"competition_handle"`
}

type CancelCompetitionResponse struct{}

type DeleteCompetitionRequest struct {
	ID string `json:"id"`
}

type DeleteCompetitionResponse struct{}

type UploadCompetitionImageRequest struct{}

type UploadCompetitionImageResponse struct {
	Images []CompetitionImage `json:"images"`
}
