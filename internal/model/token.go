package model

// AccessToken is the object embedded in access token claims. Tokens are
// issued by an external identity service, this one only verifies them.
type AccessToken struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}
