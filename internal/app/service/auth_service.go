package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/internal/app/repository"
	"github.com/shopline/shop-backend/pkg/logger"
	"github.com/shopline/shop-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

const maxUsernameLength = 150

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+\-]+$`)

// Registration form messages, keyed by field in FormErrors.
const (
	MsgFieldRequired    = "This field is required."
	MsgInvalidUsername  = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	MsgUsernameTooLong  = "Ensure this value has at most 150 characters."
	MsgUsernameTaken    = "A user with that username already exists."
	MsgInvalidEmail     = "Enter a valid email address."
	MsgEmailTaken       = "A user with that email already exists."
	MsgPasswordMismatch = "The two password fields didn't match."
	MsgPasswordTooShort = "This password is too short. It must contain at least 8 characters."
	MsgPasswordNumeric  = "This password is entirely numeric."
	MsgPasswordSimilar  = "The password is too similar to the username."
)

// FormErrors maps a form field to its validation messages.
type FormErrors map[string][]string

func (e FormErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], " ")))
	}
	return "invalid registration: " + strings.Join(parts, "; ")
}

func (e FormErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

type RegisterInput struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

// TokenRevoker stores logged-out session tokens until they expire.
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, token string, expiry time.Duration) error
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, error)
	Login(username, password string) (*model.User, *util.SessionToken, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	revoker       TokenRevoker
	validate      *validator.Validate
	jwtSecret     string
	sessionExpiry time.Duration
}

// NewAuthService builds the account service. revoker may be nil, in which
// case logout only clears the client's cookie.
func NewAuthService(
	userRepo repository.UserRepository,
	revoker TokenRevoker,
	jwtSecret string,
	sessionExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		revoker:       revoker,
		validate:      validator.New(),
		jwtSecret:     jwtSecret,
		sessionExpiry: sessionExpiry,
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	logger.Info("Attempting user registration", map[string]interface{}{
		"username": input.Username,
	})

	formErrs := s.validateRegistration(input)

	if _, ok := formErrs["username"]; !ok {
		taken, err := s.usernameTaken(input.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			formErrs.add("username", MsgUsernameTaken)
		}
	}
	if _, ok := formErrs["email"]; !ok {
		taken, err := s.emailTaken(input.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			formErrs.add("email", MsgEmailTaken)
		}
	}

	if len(formErrs) > 0 {
		logger.Warn("Registration rejected", map[string]interface{}{
			"username": input.Username,
			"fields":   len(formErrs),
		})
		return nil, formErrs
	}

	hashedPassword, err := util.HashPassword(input.Password1)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"username": input.Username,
		})
		return nil, err
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"username": input.Username,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

func (s *authService) validateRegistration(input RegisterInput) FormErrors {
	formErrs := FormErrors{}

	switch {
	case input.Username == "":
		formErrs.add("username", MsgFieldRequired)
	case len([]rune(input.Username)) > maxUsernameLength:
		formErrs.add("username", MsgUsernameTooLong)
	case !usernamePattern.MatchString(input.Username):
		formErrs.add("username", MsgInvalidUsername)
	}

	if input.Email == "" {
		formErrs.add("email", MsgFieldRequired)
	} else if err := s.validate.Var(input.Email, "email"); err != nil {
		formErrs.add("email", MsgInvalidEmail)
	}

	if input.Password1 == "" {
		formErrs.add("password1", MsgFieldRequired)
	}
	if input.Password2 == "" {
		formErrs.add("password2", MsgFieldRequired)
	}
	if input.Password1 == "" || input.Password2 == "" {
		return formErrs
	}

	if input.Password1 != input.Password2 {
		formErrs.add("password2", MsgPasswordMismatch)
		return formErrs
	}

	switch err := util.ValidatePasswordStrength(input.Password2, input.Username); {
	case errors.Is(err, util.ErrPasswordTooShort):
		formErrs.add("password2", MsgPasswordTooShort)
	case errors.Is(err, util.ErrPasswordNumericOnly):
		formErrs.add("password2", MsgPasswordNumeric)
	case errors.Is(err, util.ErrPasswordTooSimilar):
		formErrs.add("password2", MsgPasswordSimilar)
	}
	return formErrs
}

func (s *authService) usernameTaken(username string) (bool, error) {
	_, err := s.userRepo.FindByUsername(username)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	logger.Error("Failed to check existing username", err, map[string]interface{}{
		"username": username,
	})
	return false, err
}

func (s *authService) emailTaken(email string) (bool, error) {
	_, err := s.userRepo.FindByEmail(email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	logger.Error("Failed to check existing email", err)
	return false, err
}

func (s *authService) Login(username, password string) (*model.User, *util.SessionToken, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"username": username,
	})

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": username,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"username": username,
			"user_id":  user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	session, err := util.GenerateSessionToken(
		user.ID,
		user.Username,
		string(user.Role),
		s.jwtSecret,
		s.sessionExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, session, nil
}

// Logout revokes a session token for the rest of its lifetime. Tokens that
// no longer validate are already unusable and are ignored.
func (s *authService) Logout(ctx context.Context, token string) error {
	if s.revoker == nil || token == "" {
		return nil
	}

	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		logger.Debug("Skipping revocation of invalid session token", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	if err := s.revoker.BlacklistToken(ctx, token, util.TokenTTL(claims)); err != nil {
		logger.Error("Failed to revoke session token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}
