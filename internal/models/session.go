package models

// RefreshSession is a server-held refresh token record. The registry is keyed
// by token value, so one user may hold several sessions at once (one per
// device). Role is pinned at issuance and checked again on refresh.
type RefreshSession struct {
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Role         Role   `json:"role"`
}
