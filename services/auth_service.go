package services

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
	"github.com/afeibuhuifei/project-flow/utils"
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)

const minPasswordLen = 6

// bcrypt only hashes the first 72 bytes and rejects anything longer.
const maxPasswordBytes = 72

type AuthService struct {
	db         *gorm.DB
	tokens     *utils.TokenManager
	bcryptCost int
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{db: db, tokens: tokens, bcryptCost: bcryptCost}
}

type RegisterRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateMeRequest struct {
	Email models.Field[string] `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	username := strings.TrimSpace(req.Username)

	v := &validator{}
	switch n := utf8.RuneCountInString(username); {
	case n == 0:
		v.add("username", "username is required")
	case n < 2 || n > 50:
		v.add("username", "username must be between 2 and 50 characters")
	case !usernamePattern.MatchString(username):
		v.add("username", "username may only contain letters, digits and underscores")
	}
	if req.Password == "" {
		v.add("password", "password is required")
	} else if len(req.Password) < minPasswordLen {
		v.add("password", "password must be at least 6 characters")
	} else if len(req.Password) > maxPasswordBytes {
		v.add("password", "password must be at most 72 bytes")
	}
	email, ok := normalizeEmail(req.Email)
	v.check(ok, "email", "email address is invalid")
	if err := v.err(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if taken, err := exists(db.Model(&models.User{}).Where("username = ?", username)); err != nil {
		return nil, err
	} else if taken {
		return nil, invalid("username", "username already exists")
	}
	if email != nil {
		if taken, err := exists(db.Model(&models.User{}).Where("email = ?", *email)); err != nil {
			return nil, err
		} else if taken {
			return nil, invalid("email", "email is already in use")
		}
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, PasswordHash: hash, Email: email}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with id %d", user.Username, user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	v := &validator{}
	v.check(strings.TrimSpace(req.Username) != "", "username", "username is required")
	v.check(req.Password != "", "password", "password is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Login attempt for unknown user")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Wrong password for user id %d", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: User %s logged in", user.Username)
	return &AuthResult{User: &user, Token: token}, nil
}

// Authenticate resolves a bearer token to a user that still exists.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, unauthorized("invalid or expired token")
	}

	var user models.User
	err = s.db.WithContext(ctx).First(&user, claims.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) UpdateMe(ctx context.Context, userID uint, req UpdateMeRequest) (*models.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !req.Email.Set {
		return user, nil
	}

	email, ok := normalizeEmail(req.Email.Ptr())
	if !ok {
		return nil, invalid("email", "email address is invalid")
	}

	db := s.db.WithContext(ctx)
	if email != nil {
		taken, err := exists(db.Model(&models.User{}).Where("email = ? AND id <> ?", *email, userID))
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, invalid("email", "email is already used by another user")
		}
	}

	if err := db.Model(user).Update("email", email).Error; err != nil {
		return nil, err
	}
	user.Email = email
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, req ChangePasswordRequest) error {
	v := &validator{}
	v.check(req.CurrentPassword != "", "currentPassword", "current password is required")
	if req.NewPassword == "" {
		v.add("newPassword", "new password is required")
	} else if len(req.NewPassword) < minPasswordLen {
		v.add("newPassword", "new password must be at least 6 characters")
	} else if len(req.NewPassword) > maxPasswordBytes {
		v.add("newPassword", "new password must be at most 72 bytes")
	}
	if err := v.err(); err != nil {
		return err
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return invalid("currentPassword", "current password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password", hash).Error; err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: PASSWORD_CHANGED, Description: Password changed for user id %d", userID)
	return nil
}

// normalizeEmail lower-cases and validates an optional address. Blank means
// no address.
func normalizeEmail(raw *string) (*string, bool) {
	if raw == nil {
		return nil, true
	}
	e := strings.ToLower(strings.TrimSpace(*raw))
	if e == "" {
		return nil, true
	}
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return nil, false
	}
	return &e, true
}

func exists(q *gorm.DB) (bool, error) {
	var n int64
	if err := q.Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
