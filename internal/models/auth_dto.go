package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RevokeRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RevokeUserRequest struct {
	UserID string `json:"user_id"`
}

// TokenPair is the success shape of login and refresh. ExpiresAt is the
// access token's expiry as a unix timestamp, returned alongside the token so
// clients can schedule renewal without decoding it.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	UserID       string `json:"user_id"`
}

type IdentityResponse struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
