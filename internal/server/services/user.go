package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ulak-labs/ulak/internal/common"
	"github.com/ulak-labs/ulak/internal/logging"
	"github.com/ulak-labs/ulak/internal/server/auth"
	"github.com/ulak-labs/ulak/internal/server/config"
	"github.com/ulak-labs/ulak/internal/server/models"
	"github.com/ulak-labs/ulak/internal/server/repositories/repomanager"
)

// UserService implements registration, login with lockout, password recovery
// through a security question, and password changes. It is the identity
// collaborator: the transfer core only ever sees the user id it resolves.
type UserService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger

	jwtSecret         []byte
	tokenValidity     time.Duration
	maxFailedAttempts int
	lockoutDuration   time.Duration
}

func NewUserService(db *sql.DB, repos repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                db,
		repos:             repos,
		logger:            logger.With("module", "user_service"),
		jwtSecret:         []byte(cfg.SecretKey),
		tokenValidity:     cfg.AccessTokenValidityDuration,
		maxFailedAttempts: cfg.MaxFailedLoginAttempts,
		lockoutDuration:   cfg.LockoutDuration,
	}
}

type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	PasswordConfirm string

	SecurityQuestion string
	SecurityAnswer   string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Password != in.PasswordConfirm {
		return nil, fmt.Errorf("%w: passwords do not match", common.ErrValidation)
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.Email == "" || in.SecurityQuestion == "" || in.SecurityAnswer == "" {
		return nil, fmt.Errorf("%w: email, security question and answer are required", common.ErrValidation)
	}

	passwordHash, err := auth.HashSecret(in.Password)
	if err != nil {
		return nil, common.ErrInternal
	}
	answerHash, err := auth.HashSecret(normalizeAnswer(in.SecurityAnswer))
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		ID:                 uuid.New().String(),
		FirstName:          strings.TrimSpace(in.FirstName),
		LastName:           strings.TrimSpace(in.LastName),
		Email:              strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:       passwordHash,
		SecurityQuestion:   strings.TrimSpace(in.SecurityQuestion),
		SecurityAnswerHash: answerHash,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.repos.Users(s.db).Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// LoginResult carries the issued token and account flags the client needs.
type LoginResult struct {
	AccessToken        string
	ExpiresAt          time.Time
	MustChangePassword bool
}

// Login verifies credentials and issues an access token. Repeated failures
// lock the account for the configured window.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repos.Users(s.db)

	user, err := repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	now := time.Now().UTC()

	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return nil, common.ErrAccountLocked
	}

	if !auth.VerifySecret(password, user.PasswordHash) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= s.maxFailedAttempts {
			lockedUntil := now.Add(s.lockoutDuration)
			user.LockedUntil = &lockedUntil
			user.FailedLoginAttempts = 0
			s.logger.Warn(ctx, "account locked after failed logins", "user_id", user.ID)
		}
		if err := repo.Update(ctx, user); err != nil {
			return nil, common.ErrInternal
		}
		return nil, common.ErrInvalidCredentials
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	if err := repo.Update(ctx, user); err != nil {
		return nil, common.ErrInternal
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrInternal
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{
		AccessToken:        token,
		ExpiresAt:          now.Add(s.tokenValidity),
		MustChangePassword: user.MustChangePassword,
	}, nil
}

// Resolve verifies an access token and returns the account it belongs to.
func (s *UserService) Resolve(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrInternal
	}
	return user, nil
}

// SecurityQuestion returns the account's recovery question.
func (s *UserService) SecurityQuestion(ctx context.Context, email string) (string, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	return user.SecurityQuestion, nil
}

// ResetPassword verifies the security answer and replaces the password with
// a temporary one the account must change on next login.
func (s *UserService) ResetPassword(ctx context.Context, email, answer string) (string, error) {
	repo := s.repos.Users(s.db)

	user, err := repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}

	if !auth.VerifySecret(normalizeAnswer(answer), user.SecurityAnswerHash) {
		return "", fmt.Errorf("%w: security answer does not match", common.ErrValidation)
	}

	tempPassword, err := auth.GenerateTempPassword()
	if err != nil {
		return "", common.ErrInternal
	}
	passwordHash, err := auth.HashSecret(tempPassword)
	if err != nil {
		return "", common.ErrInternal
	}

	user.PasswordHash = passwordHash
	user.MustChangePassword = true
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	if err := repo.Update(ctx, user); err != nil {
		return "", common.ErrInternal
	}

	s.logger.Info(ctx, "password reset issued", "user_id", user.ID)
	return tempPassword, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, newPasswordConfirm string) error {
	if newPassword != newPasswordConfirm {
		return fmt.Errorf("%w: new passwords do not match", common.ErrValidation)
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}

	repo := s.repos.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.VerifySecret(oldPassword, user.PasswordHash) {
		return fmt.Errorf("%w: current password does not match", common.ErrValidation)
	}

	passwordHash, err := auth.HashSecret(newPassword)
	if err != nil {
		return common.ErrInternal
	}

	user.PasswordHash = passwordHash
	user.MustChangePassword = false
	if err := repo.Update(ctx, user); err != nil {
		return common.ErrInternal
	}

	s.logger.Info(ctx, "password changed", "user_id", userID)
	return nil
}
