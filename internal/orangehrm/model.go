package orangehrm

// TokenResponse is the body returned by the OAuth2 token endpoint. Pointers
// tell an absent or null field apart from an empty one.
type TokenResponse struct {
	AccessToken  *string `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`
	TokenType    string  `json:"token_type"`
	ExpiresIn    int64   `json:"expires_in"`
}
