package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/classhub/authcore/internal/models"
	"github.com/classhub/authcore/internal/storage"
)

// VerifyCredentials checks an email/password pair against the user store.
// Unknown email and wrong password surface the same ErrInvalidCredentials so
// callers cannot probe for account existence; the two cases stay apart in the
// debug log. The active flag is checked only after the password matched, so a
// disabled account does not leak password validity either.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.log.Debugw("login attempt for unknown email", "email", email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Debugw("password mismatch", "userID", user.ID)
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrAccountDisabled
	}

	return user, nil
}
