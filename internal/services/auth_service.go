package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/myfit/internal/models"
	"github.com/terraincognita07/myfit/internal/security"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAuthEmailExists       = errors.New("auth email exists")
	ErrAuthUserNotFound      = errors.New("auth user not found")
	ErrAuthRegisterFailed    = errors.New("auth register failed")
	ErrAuthPasswordResetFail = errors.New("auth password reset failed")
)

const temporaryPasswordLength = 12

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
	CountUsers() (int64, error)
}

type AuthService struct {
	users AuthUserRepository
	cost  int
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users, cost: bcrypt.DefaultCost}
}

func (service *AuthService) Register(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrAuthRegisterFailed, err)
	}
	if exists {
		return models.User{}, ErrAuthEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrAuthRegisterFailed, err)
	}

	user := models.User{Email: email, PasswordHash: string(hash)}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrAuthRegisterFailed, err)
	}
	return user, nil
}

// RequiresInitialSetup reports whether no account exists yet.
func (service *AuthService) RequiresInitialSetup() (bool, error) {
	count, err := service.users.CountUsers()
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Authenticate returns ErrAuthCredentialsInvalid for both unknown emails and
// wrong passwords.
func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrAuthCredentialsInvalid
		}
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

func (service *AuthService) FindByEmail(emailRaw string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrAuthUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// ResetPassword replaces the user's password with a generated one that must be
// changed on next login, and returns it.
func (service *AuthService) ResetPassword(emailRaw string) (string, error) {
	user, err := service.FindByEmail(emailRaw)
	if err != nil {
		return "", err
	}

	temporaryPassword, err := security.TemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthPasswordResetFail, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temporaryPassword), service.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthPasswordResetFail, err)
	}
	if err := service.users.UpdatePassword(user.ID, string(hash), true); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthPasswordResetFail, err)
	}
	return temporaryPassword, nil
}

// ChangePassword verifies the current password and stores a new one.
func (service *AuthService) ChangePassword(userID uint, currentPassword string, newPassword string) error {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(currentPassword))) != nil {
		return ErrAuthCredentialsInvalid
	}
	newPassword = strings.TrimSpace(newPassword)
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), service.cost)
	if err != nil {
		return err
	}
	return service.users.UpdatePassword(user.ID, string(hash), false)
}
