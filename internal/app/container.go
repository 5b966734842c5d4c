package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/signup-site/internal/api"
	"github.com/nekogravitycat/signup-site/internal/apiclient"
	"github.com/nekogravitycat/signup-site/internal/auth"
	"github.com/nekogravitycat/signup-site/internal/page"
	"github.com/nekogravitycat/signup-site/internal/pkg/preview"
	"github.com/nekogravitycat/signup-site/internal/session"
	"github.com/nekogravitycat/signup-site/internal/validation"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction  bool
	ProdOrigins   string
	APIBaseURL    string
	APITimeout    time.Duration
	HTTPClient    *http.Client
	UsersPageSize int
	SessionSecret string
	SessionTTL    time.Duration
	SessionMax    int
	Logger        *logrus.Entry
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	Sessions   *session.Store
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	// Init Components
	client := apiclient.NewClient(apiclient.Config{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    cfg.APITimeout,
		HTTPClient: cfg.HTTPClient,
		Logger:     logger,
	})
	jwtManager := auth.NewJWTManager(cfg.SessionSecret, cfg.SessionTTL)

	templates, err := page.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// Session Module
	sessions := session.NewStore(session.Options{
		API:         client,
		Rules:       validation.NewRules(),
		Preview:     preview.NewGenerator(preview.DefaultSize, preview.DefaultSize),
		PageSize:    cfg.UsersPageSize,
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.SessionMax,
		Logger:      logger,
	})

	// Router
	router := api.NewRouter(api.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		JWTManager:   jwtManager,
		Sessions:     sessions,
		Templates:    templates,
		Logger:       logger,
	})

	return &Container{
		Router:     router,
		Sessions:   sessions,
		JWTManager: jwtManager,
	}, nil
}
