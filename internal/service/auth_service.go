package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/mufashe/mufashe-api/internal/domain"
	"github.com/mufashe/mufashe-api/internal/identifier"
	"github.com/mufashe/mufashe-api/internal/jwt"
	pw "github.com/mufashe/mufashe-api/internal/password"
	"github.com/mufashe/mufashe-api/internal/repository"
	"github.com/mufashe/mufashe-api/internal/telemetry"
)

const minPasswordLength = 6

// AuthService encapsulates registration, login and session lookups.
type AuthService struct {
	instrumentation
	users     repository.UserRepository
	snowflake *snowflake.Node
	jwt       *jwt.Generator
}

// NewAuthService wires dependencies.
func NewAuthService(users repository.UserRepository, snowflake *snowflake.Node, generator *jwt.Generator, logger *zap.Logger, tracing *telemetry.Provider) *AuthService {
	return &AuthService{
		instrumentation: newInstrumentation(logger, tracing),
		users:           users,
		snowflake:       snowflake,
		jwt:             generator,
	}
}

// Register creates an account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Register")
	defer span.End()

	name := identifier.NormalizeName(in.Name)
	email := identifier.NormalizeEmail(in.Email)
	phone := identifier.NormalizePhone(in.Phone)

	if err := validateRegistration(name, email, phone, in.Password); err != nil {
		return nil, err
	}

	for _, candidate := range []identifier.Identifier{
		{Field: domain.FieldEmail, Value: email},
		{Field: domain.FieldPhone, Value: phone},
		{Field: domain.FieldName, Value: name},
	} {
		if candidate.Value == "" {
			continue
		}
		_, err := s.users.FindByField(ctx, candidate.Field, candidate.Value)
		if err == nil {
			return nil, newConflictError(candidate.Field)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			span.RecordError(err)
			return nil, fmt.Errorf("check %s: %w", candidate.Field, err)
		}
	}

	hash, err := pw.Hash(in.Password)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		ID:           s.snowflake.Generate().Int64(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
	})
	if err != nil {
		var dup *repository.DuplicateKeyError
		if errors.As(err, &dup) {
			return nil, newConflictError(dup.Field)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	result, err := s.issue(user)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.audit("auth.register.success", "user_id", user.ID)
	return result, nil
}

func validateRegistration(name, email, phone, password string) error {
	switch {
	case name == "" || password == "":
		return newValidationError("name and password are required")
	case email == "" && phone == "":
		return newValidationError("Provide at least one: email or phone")
	case utf8.RuneCountInString(password) < minPasswordLength:
		return newValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	case len(password) > pw.MaxBytes:
		return newValidationError(fmt.Sprintf("Password must be at most %d bytes", pw.MaxBytes))
	case email != "" && !identifier.IsEmail(email):
		return newValidationError("Invalid email address")
	case phone != "" && !identifier.IsPhone(phone):
		return newValidationError("Invalid phone number")
	}
	return nil
}

// Login authenticates by email, phone or name. Unknown identifiers and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Login")
	defer span.End()

	raw := strings.TrimSpace(in.Identifier)
	if raw == "" || in.Password == "" {
		return nil, newValidationError("identifier (email, phone, or name) and password are required")
	}

	id := identifier.Resolve(raw)
	user, err := s.users.FindByField(ctx, id.Field, id.Value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.audit("auth.login.rejected", "kind", string(id.Field))
			return nil, newInvalidCredentialsError()
		}
		span.RecordError(err)
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := pw.Verify(in.Password, user.PasswordHash)
	if err != nil {
		span.RecordError(err)
		s.log().Error("stored password hash unreadable", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	if err != nil || !valid {
		s.audit("auth.login.rejected", "kind", string(id.Field), "user_id", user.ID)
		return nil, newInvalidCredentialsError()
	}

	result, err := s.issue(user)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.audit("auth.login.success", "kind", string(id.Field), "user_id", user.ID)
	return result, nil
}

// GetUserInfo returns the profile of an authenticated user.
func (s *AuthService) GetUserInfo(ctx context.Context, userID int64) (*UserProfile, error) {
	ctx, span := s.startSpan(ctx, "AuthService.GetUserInfo")
	defer span.End()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newNotFoundError("User not found")
		}
		span.RecordError(err)
		return nil, fmt.Errorf("get user: %w", err)
	}
	profile := newUserProfile(user)
	return &profile, nil
}

// ValidateToken verifies a session token and returns its user id.
func (s *AuthService) ValidateToken(token string) (int64, error) {
	userID, err := s.jwt.Validate(token)
	if err != nil {
		return 0, newUnauthorizedError("Invalid token")
	}
	return userID, nil
}

// GoogleLogin is reserved for federated sign-in.
func (s *AuthService) GoogleLogin(ctx context.Context) (*AuthResult, error) {
	return nil, &Error{Kind: ErrNotImplemented, Message: "Google sign-in is not available yet", Status: http.StatusNotImplemented}
}

func (s *AuthService) issue(user domain.User) (*AuthResult, error) {
	token, err := s.jwt.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token.Value, User: newUserView(user)}, nil
}
