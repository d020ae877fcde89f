package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"userapp/config"
	"userapp/services/logging"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrPasswordHashingFailed = errors.New("failed to hash password")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrCodeInvalid           = errors.New("invalid code")
	ErrCodeExpired           = errors.New("code has expired")
)

type Service struct {
	config *config.Config
	db     *gorm.DB
	logger *logging.Service
}

func NewService(cfg *config.Config, db *gorm.DB, logger *logging.Service) *Service {
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		cfg.Auth.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		config: cfg,
		db:     db,
		logger: logger,
	}
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return "", ErrPasswordHashingFailed
	}

	return string(hash), nil
}

func (s *Service) VerifyPassword(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}

func (s *Service) generateCode() (string, error) {
	bytes := make([]byte, s.config.Auth.CodeLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure code: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func (s *Service) codeExpiry(purpose CodePurpose) time.Duration {
	if purpose == PurposePasswordReset {
		return s.config.Auth.ResetCodeExpiry
	}
	return s.config.Auth.VerifyCodeExpiry
}

// IssueCode creates a single-use code bound to the given account. Callers pass
// the transaction handle the surrounding flow runs in.
func (s *Service) IssueCode(tx *gorm.DB, userID uint, purpose CodePurpose) (*EmailCode, error) {
	code, err := s.generateCode()
	if err != nil {
		s.logger.Error("failed to generate code", zap.Error(err), zap.Uint("user_id", userID))
		return nil, err
	}

	emailCode := &EmailCode{
		Code:      code,
		UserID:    userID,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(s.codeExpiry(purpose)),
	}

	if err := tx.Create(emailCode).Error; err != nil {
		s.logger.Error("failed to persist code", zap.Error(err), zap.Uint("user_id", userID))
		return nil, fmt.Errorf("failed to create code: %w", err)
	}

	s.logger.Info("code issued",
		zap.Uint("user_id", userID),
		zap.String("purpose", string(purpose)),
		zap.Time("expires_at", emailCode.ExpiresAt))
	return emailCode, nil
}

// ConsumeCode looks up a code, checks purpose and expiry, and deletes it so a
// second consumption fails. A purpose mismatch is reported exactly like an
// unknown code so the response does not leak that the code exists elsewhere.
func (s *Service) ConsumeCode(tx *gorm.DB, code string, purpose CodePurpose) (*EmailCode, error) {
	var emailCode EmailCode
	if err := tx.Where("code = ?", code).First(&emailCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("unknown code attempted", zap.String("purpose", string(purpose)))
			return nil, ErrCodeInvalid
		}
		return nil, fmt.Errorf("failed to look up code: %w", err)
	}

	if emailCode.Purpose != purpose {
		s.logger.Warn("code used in wrong flow",
			zap.Uint("user_id", emailCode.UserID),
			zap.String("issued_for", string(emailCode.Purpose)),
			zap.String("attempted", string(purpose)))
		return nil, ErrCodeInvalid
	}

	if time.Now().After(emailCode.ExpiresAt) {
		s.logger.Warn("expired code attempted",
			zap.Uint("user_id", emailCode.UserID),
			zap.Time("expired_at", emailCode.ExpiresAt))
		return nil, ErrCodeExpired
	}

	if err := tx.Delete(&emailCode).Error; err != nil {
		return nil, fmt.Errorf("failed to consume code: %w", err)
	}

	return &emailCode, nil
}

// DeleteCodesForUser removes any outstanding codes owned by an account,
// for use when the account itself is deleted.
func (s *Service) DeleteCodesForUser(tx *gorm.DB, userID uint) error {
	if err := tx.Where("user_id = ?", userID).Delete(&EmailCode{}).Error; err != nil {
		return fmt.Errorf("failed to delete codes: %w", err)
	}
	return nil
}

func (s *Service) CleanupExpiredCodes() (int64, error) {
	result := s.db.Where("expires_at < ?", time.Now()).Delete(&EmailCode{})
	if result.Error != nil {
		s.logger.Error("failed to cleanup expired codes", zap.Error(result.Error))
		return 0, fmt.Errorf("failed to cleanup expired codes: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		s.logger.Info("expired codes cleaned up", zap.Int64("codes_removed", result.RowsAffected))
	}
	return result.RowsAffected, nil
}
