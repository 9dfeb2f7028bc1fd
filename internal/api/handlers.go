package api

import (
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/myfit/internal/metrics"
	"github.com/terraincognita07/myfit/internal/services"
)

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour

	loginAttemptLimit  = 8
	loginAttemptWindow = 15 * time.Minute

	eventsKeepAliveInterval = 25 * time.Second
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool

	authService      *services.AuthService
	logService       *services.LogService
	dashboardService *services.DashboardService
	analyticsService *services.AnalyticsService
	exportService    *services.ExportService

	metrics      *metrics.Metrics
	log          *logrus.Logger
	loginLimiter *attemptLimiter
	now          func() time.Time
}

type Options struct {
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
}

type credentialsInput struct {
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RememberMe bool   `json:"remember_me" form:"remember_me"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

type entryInput struct {
	Date     string `json:"date" form:"date"`
	Calories int64  `json:"calories" form:"calories"`
	Protein  int64  `json:"protein" form:"protein"`
}

func NewHandler(deps Dependencies, options Options) (*Handler, error) {
	if strings.TrimSpace(options.SecretKey) == "" {
		return nil, errors.New("secret key is required")
	}
	if deps.Auth == nil || deps.Logs == nil || deps.Dashboard == nil || deps.Analytics == nil || deps.Export == nil {
		return nil, errors.New("all services are required")
	}

	location := options.Location
	if location == nil {
		location = time.UTC
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Handler{
		secretKey:        []byte(options.SecretKey),
		location:         location,
		cookieSecure:     options.CookieSecure,
		authService:      deps.Auth,
		logService:       deps.Logs,
		dashboardService: deps.Dashboard,
		analyticsService: deps.Analytics,
		exportService:    deps.Export,
		metrics:          deps.Metrics,
		log:              logger,
		loginLimiter:     newAttemptLimiter(),
		now:              time.Now,
	}, nil
}
