package model

type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CreateCategoryResponse struct {
	Category Category `json:"category"`
}

type GetListCategoryRequest struct{}

type GetListCategoryResponse struct {
	Categories []Category `json:"categories"`
}

type UpdateCategoryByIDRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UpdateCategoryByIDResponse struct{}

type DeleteCategoryByIDRequest struct {
	ID string `json:"id"`
}

type DeleteCategoryByIDResponse struct{}
