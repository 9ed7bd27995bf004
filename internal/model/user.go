package model

type ShortUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type User struct {
	ShortUser
	Role    string `json:"role,omitempty"`
	Address string `json:"address,omitempty"`
}

type GetMeRequest struct{}

type GetMeResponse User
