package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/classhub/authcore/internal/models"
	"github.com/classhub/authcore/internal/util"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

const jwtLeeway = 5 * time.Second

// TokenService signs and verifies both token classes. Access and refresh
// tokens use separate secrets, so leaking one signing key does not
// compromise the other class.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(cfg *util.TokenConfig) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}
}

type Claims struct {
	UserID string      `json:"uid"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// CreateAccessToken mints an HS512 signed access token. The expiry instant is
// returned alongside the token so callers can surface it without decoding.
func (ts *TokenService) CreateAccessToken(userID string, role models.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ts.accessTTL)
	token, err := ts.sign(userID, role, now, expiresAt, ts.accessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (ts *TokenService) CreateRefreshToken(userID string, role models.Role, now time.Time) (string, error) {
	return ts.sign(userID, role, now, now.Add(ts.refreshTTL), ts.refreshSecret)
}

// sign embeds a fresh JTI, so two tokens minted in the same instant still
// differ. Rotation relies on that.
func (ts *TokenService) sign(userID string, role models.Role, now, expiresAt time.Time, secret []byte) (string, error) {
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signed string: %w", err)
	}

	return signedToken, nil
}

func (ts *TokenService) ValidateAccessToken(token string) (*Claims, error) {
	return ts.parse(token, ts.accessSecret)
}

func (ts *TokenService) ValidateRefreshToken(token string) (*Claims, error) {
	return ts.parse(token, ts.refreshSecret)
}

// parse classifies every failure as either ErrTokenExpired or
// ErrTokenInvalid; callers branch on nothing finer.
func (ts *TokenService) parse(token string, secret []byte) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithLeeway(jwtLeeway),
		jwt.WithExpirationRequired(),
	}

	parsedToken, err := jwt.ParseWithClaims(
		token,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
				return nil, ErrTokenInvalid
			}
			return secret, nil
		},
		opts...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if parsedToken == nil || !parsedToken.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsedToken.Claims.(*Claims)
	if !ok || claims.UserID == "" || !claims.Role.Valid() {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
