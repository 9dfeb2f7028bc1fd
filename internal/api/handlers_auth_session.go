package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/myfit/internal/models"
	"github.com/terraincognita07/myfit/internal/services"
)

type userView struct {
	ID                 uint   `json:"id"`
	Email              string `json:"email"`
	MustChangePassword bool   `json:"must_change_password"`
}

func newUserView(user *models.User) userView {
	return userView{ID: user.ID, Email: user.Email, MustChangePassword: user.MustChangePassword}
}

// issueSession signs a token for user and mirrors it into the session cookie.
// Remembered sessions outlive the browser; others end with it.
func (handler *Handler) issueSession(c *fiber.Ctx, user *models.User, remember bool) (string, error) {
	ttl := defaultAuthTokenTTL
	if remember {
		ttl = rememberAuthTokenTTL
	}

	issuedAt := time.Now()
	token, err := handler.signSessionToken(user.ID, issuedAt, issuedAt.Add(ttl))
	if err != nil {
		return "", err
	}

	var expires time.Time
	if remember {
		expires = issuedAt.Add(ttl)
	}
	c.Cookie(handler.sessionCookie(token, expires))
	return token, nil
}

func (handler *Handler) signSessionToken(userID uint, issuedAt time.Time, expiresAt time.Time) (string, error) {
	claims := authClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(handler.secretKey)
}

// sessionCookie builds the auth cookie; a zero expires makes it a browser-session cookie.
func (handler *Handler) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     authCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func (handler *Handler) SetupStatus(c *fiber.Ctx) error {
	required, err := handler.authService.RequiresInitialSetup()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load setup status")
	}
	return c.JSON(fiber.Map{"setup_required": required})
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Register(credentials.Email, credentials.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthCredentialsInvalid):
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		case errors.Is(err, services.ErrWeakPassword):
			return apiError(c, fiber.StatusBadRequest, "weak password")
		case errors.Is(err, services.ErrAuthEmailExists):
			return apiError(c, fiber.StatusConflict, "email already exists")
		default:
			handler.log.WithError(err).Error("registration failed")
			return apiError(c, fiber.StatusInternalServerError, "failed to create account")
		}
	}

	token, err := handler.issueSession(c, &user, true)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  newUserView(&user),
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	now := handler.now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Authenticate(credentials.Email, credentials.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthCredentialsInvalid) {
			handler.loginLimiter.addFailure(limiterKey, now)
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		handler.log.WithError(err).Error("login failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to log in")
	}
	handler.loginLimiter.reset(limiterKey)

	token, err := handler.issueSession(c, &user, credentials.RememberMe)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  newUserView(&user),
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(handler.sessionCookie("", time.Now().Add(-time.Hour)))
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	if err := handler.authService.ChangePassword(user.ID, input.CurrentPassword, input.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrAuthCredentialsInvalid):
			return apiError(c, fiber.StatusUnauthorized, "invalid current password")
		case errors.Is(err, services.ErrWeakPassword):
			return apiError(c, fiber.StatusBadRequest, "weak password")
		default:
			handler.log.WithField("user_id", user.ID).WithError(err).Error("password change failed")
			return apiError(c, fiber.StatusInternalServerError, "failed to change password")
		}
	}

	user.MustChangePassword = false
	token, err := handler.issueSession(c, user, false)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  newUserView(user),
	})
}
