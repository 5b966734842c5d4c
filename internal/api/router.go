package api

import (
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/signup-site/internal/auth"
	"github.com/nekogravitycat/signup-site/internal/page"
	regHttp "github.com/nekogravitycat/signup-site/internal/registration/http"
	"github.com/nekogravitycat/signup-site/internal/session"
	userHttp "github.com/nekogravitycat/signup-site/internal/userlist/http"
	"github.com/nekogravitycat/signup-site/web"
)

// Config holds the dependencies required to build the router.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	JWTManager   *auth.JWTManager
	Sessions     *session.Store
	Templates    *template.Template
	Logger       *logrus.Entry
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Session) and registering routes for the page and the API.
func NewRouter(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: Logs request information through logrus.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	if cfg.Templates != nil {
		r.SetHTMLTemplate(cfg.Templates)
	}

	static, err := fs.Sub(web.StaticFS, "static")
	if err == nil {
		r.StaticFS("/static", http.FS(static))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// sessionMiddleware: Resolves or creates the visitor session from the cookie.
	sessionMiddleware := auth.SessionRequired(cfg.JWTManager, cfg.Sessions, cfg.IsProduction, logger)

	// Initialize HTTP Handlers for each module.
	pageHandler := page.NewHandler(logger)
	userHandler := userHttp.NewHandler()
	regHandler := regHttp.NewHandler()

	site := r.Group("", sessionMiddleware)
	page.RegisterRoutes(site, pageHandler)

	// Register API routes under /v1
	v1 := r.Group("/v1", sessionMiddleware)
	{
		userHttp.RegisterRoutes(v1, userHandler)
		regHttp.RegisterRoutes(v1, regHandler)
	}

	return r
}

// corsConfig configures CORS (Cross-Origin Resource Sharing).
func corsConfig(cfg Config) cors.Config {
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{
		"http://localhost:3000", // local frontend
	}
	if cfg.IsProduction {
		config.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	}
	if len(config.AllowOrigins) == 0 {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type"}
	config.AllowCredentials = !config.AllowAllOrigins
	return config
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
