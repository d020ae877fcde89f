package users

import (
	"errors"
	"fmt"

	"userapp/config"
	"userapp/services/auth"
	"userapp/services/logging"
	"userapp/services/token"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNotVerified  = errors.New("user not verified")
)

// Mailer is the slice of the mail service this package needs.
type Mailer interface {
	SendHTML(to, subject, htmlBody string) error
}

type Service struct {
	config *config.Config
	db     *gorm.DB
	auth   *auth.Service
	tokens *token.Service
	mailer Mailer
	logger *logging.Service
}

func NewService(cfg *config.Config, db *gorm.DB, authSvc *auth.Service, tokenSvc *token.Service, mailer Mailer, logger *logging.Service) *Service {
	return &Service{
		config: cfg,
		db:     db,
		auth:   authSvc,
		tokens: tokenSvc,
		mailer: mailer,
		logger: logger,
	}
}

type RegisterInput struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Country      string
	Image        string
	FrontBaseURL string
}

type UpdateInput struct {
	FirstName string
	LastName  string
	Country   string
	Image     string
}

func (s *Service) List() ([]User, error) {
	var users []User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *Service) Get(id uint) (*User, error) {
	var user User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *Service) GetByEmail(email string) (*User, error) {
	var user User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// Register creates the account, issues a verification code and emails the
// verification link, all inside one transaction. A failed send rolls the
// account back, so the client can simply retry instead of being stuck with an
// unverified account it cannot re-register.
func (s *Service) Register(in RegisterInput) (*User, error) {
	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Country:   in.Country,
		Image:     in.Image,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		code, err := s.auth.IssueCode(tx, user.ID, auth.PurposeEmailVerify)
		if err != nil {
			return err
		}

		link := fmt.Sprintf("%s/auth/verify_email/%s", in.FrontBaseURL, code.Code)
		body, err := renderMail(verifyEmailTmpl, mailData{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Link:      link,
			AppName:   s.config.App.Name,
		})
		if err != nil {
			return err
		}

		subject := fmt.Sprintf("Verify your email for %s", s.config.App.Name)
		if err := s.mailer.SendHTML(user.Email, subject, body); err != nil {
			return fmt.Errorf("failed to send verification email: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("registration failed", zap.Error(err), zap.String("email", in.Email))
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// VerifyEmail consumes a verification code and marks the owning account
// verified. Code deletion and the flag flip commit together.
func (s *Service) VerifyEmail(code string) (*User, error) {
	var user User

	err := s.db.Transaction(func(tx *gorm.DB) error {
		emailCode, err := s.auth.ConsumeCode(tx, code, auth.PurposeEmailVerify)
		if err != nil {
			return err
		}

		if err := tx.First(&user, emailCode.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		user.IsVerified = true
		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to mark user verified: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("email verified", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return &user, nil
}

// Login checks credentials and issues a signed token. Unknown email and wrong
// password produce the same error so responses cannot be used to enumerate
// accounts.
func (s *Service) Login(email, password string) (*User, string, error) {
	user, err := s.GetByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", auth.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.IsVerified {
		return nil, "", ErrNotVerified
	}

	if err := s.auth.VerifyPassword(user.Password, password); err != nil {
		return nil, "", err
	}

	signed, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in", zap.Uint("user_id", user.ID))
	return user, signed, nil
}

// Update applies only the mutable profile fields. Email, password and the
// verified flag have their own flows.
func (s *Service) Update(id uint, in UpdateInput) (*User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Country = in.Country
	user.Image = in.Image

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete removes the account and any codes it still owns. Deleting a
// nonexistent id is not an error.
func (s *Service) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.auth.DeleteCodesForUser(tx, id); err != nil {
			return err
		}

		if err := tx.Delete(&User{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		return nil
	})
}

// RequestPasswordReset issues a reset code for an existing account and emails
// the reset link.
func (s *Service) RequestPasswordReset(email, frontBaseURL string) error {
	user, err := s.GetByEmail(email)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		code, err := s.auth.IssueCode(tx, user.ID, auth.PurposePasswordReset)
		if err != nil {
			return err
		}

		link := fmt.Sprintf("%s/auth/reset_password/%s", frontBaseURL, code.Code)
		body, err := renderMail(resetPasswordTmpl, mailData{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Link:      link,
			AppName:   s.config.App.Name,
		})
		if err != nil {
			return err
		}

		if err := s.mailer.SendHTML(user.Email, "Password reset email", body); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("password reset request failed", zap.Error(err), zap.Uint("user_id", user.ID))
		return err
	}

	s.logger.Info("password reset requested", zap.Uint("user_id", user.ID))
	return nil
}

// ResetPassword consumes a reset code and replaces the stored hash.
func (s *Service) ResetPassword(code, newPassword string) error {
	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	var userID uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		emailCode, err := s.auth.ConsumeCode(tx, code, auth.PurposePasswordReset)
		if err != nil {
			return err
		}

		var user User
		if err := tx.First(&user, emailCode.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		user.Password = hash
		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		userID = user.ID
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("password reset completed", zap.Uint("user_id", userID))
	return nil
}
