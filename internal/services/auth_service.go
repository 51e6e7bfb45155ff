package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/justsurfingit/application-tracker/internal/apperr"
	"github.com/justsurfingit/application-tracker/internal/auth"
	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/models"
)

type AuthService struct {
	DB     *gorm.DB
	Tokens *auth.TokenIssuer
}

func NewAuthService(db *gorm.DB, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{DB: db, Tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, req *dtos.Credentials) (*dtos.TokenResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperr.Invalid("email", "email and password are required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: email, PasswordHash: hash}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if n > 0 {
			return apperr.Invalid("email", "User already exists")
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Invalid("email", "User already exists")
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.token(user)
}

// Login answers every mismatch the same way so callers cannot probe which
// emails are registered.
func (s *AuthService) Login(ctx context.Context, req *dtos.Credentials) (*dtos.TokenResponse, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Unauthorized("Invalid credentials")
	case err != nil:
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	return s.token(&user)
}

func (s *AuthService) token(u *models.User) (*dtos.TokenResponse, error) {
	tok, err := s.Tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &dtos.TokenResponse{AccessToken: tok, TokenType: "bearer"}, nil
}

// Authenticate resolves a bearer token to a live user id. A token for a
// deleted account is rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uint, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return 0, err
	}
	id, err := claims.UserID()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("load user: %w", err)
	}
	if n == 0 {
		return 0, apperr.Unauthorized("User not found")
	}
	return id, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*dtos.UserSummary, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, lookupErr(err, "User")
	}
	return &dtos.UserSummary{ID: user.ID, Email: user.Email, FullName: user.FullName}, nil
}
