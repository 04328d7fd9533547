package front

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"kyri56xcaesar/abac-front/internal/authmw"
	"kyri56xcaesar/abac-front/internal/gateway"
	"kyri56xcaesar/abac-front/internal/logger"
	"kyri56xcaesar/abac-front/internal/mtask"
	"kyri56xcaesar/abac-front/internal/mteam"
	"kyri56xcaesar/abac-front/internal/muser"
	"kyri56xcaesar/abac-front/internal/utils"
)

const loginPath = "/login"

// server wires the gateway, the resource modules and the session gate into one gin engine.
type server struct {
	config Config
	engine *gin.Engine

	auth        *authmw.Auth
	users       *muser.Service
	teams       *mteam.Service
	members     *mteam.MembershipService
	tasks       *mtask.Service
	assignments *mtask.AssignmentService

	templates bool
}

func newServer(cfg Config) *server {
	api := gateway.New(gateway.Options{
		BaseURL: cfg.BackendURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.RequestTimeout,
	})

	s := &server{
		config: cfg,
		engine: gin.New(),
		auth: &authmw.Auth{
			API:          api,
			CookieName:   cfg.SessionCookie,
			CookieSecure: cfg.CookieSecure,
			LoginPath:    loginPath,
		},
		users:       muser.NewService(api),
		teams:       mteam.NewService(api),
		members:     mteam.NewMembershipService(api),
		tasks:       mtask.NewService(api),
		assignments: mtask.NewAssignmentService(api),
	}

	s.engine.Use(logger.GinLogger(), logger.GinRecovery())
	s.setCors()
	s.setTemplateEngine()
	s.setRoutes()

	return s
}

func (s *server) setCors() {
	corsconfig := cors.DefaultConfig()
	corsconfig.AllowOrigins = s.config.AllowedOrigins
	corsconfig.AllowMethods = s.config.AllowedMethods
	corsconfig.AllowHeaders = s.config.AllowedHeaders
	s.engine.Use(cors.New(corsconfig))
}

// setTemplateEngine loads the html templates; without them every screen answers in JSON.
func (s *server) setTemplateEngine() {
	if s.config.TemplatesPath == "" {
		return
	}
	if _, err := os.Stat(s.config.TemplatesPath); err != nil {
		logger.Warnf("templates not found at %s, serving json only", s.config.TemplatesPath)
		return
	}

	funcMap := template.FuncMap{
		"toJSON": func(v any) string {
			b, err := json.Marshal(v)
			if err != nil {
				return "{}"
			}
			return template.HTMLEscapeString(string(b))
		},
		"lower": strings.ToLower,
		"statusLabel": func(st mtask.Status) string {
			return strings.ReplaceAll(string(st), "_", " ")
		},
	}
	s.engine.SetHTMLTemplate(template.Must(template.New("").Funcs(funcMap).ParseGlob(s.config.TemplatesPath + "/*.html")))
	s.templates = true
}

func (s *server) setRoutes() {
	if s.config.StaticsPath != "" {
		if _, err := os.Stat(s.config.StaticsPath); err == nil {
			s.engine.Static("/static", s.config.StaticsPath)
		}
	}

	root := s.engine.Group("/")
	{
		root.GET("/healthz", func(c *gin.Context) {
			s.respondInFormat(c, http.StatusOK, gin.H{"status": "alive"}, "health.html")
		})
		root.GET("/", s.handleRoot)
		root.GET("/login", s.handleLoginPage)
		root.POST("/login", s.handleLogin)
		root.GET("/register", s.handleRegisterPage)
		root.POST("/register", s.handleRegister)
		root.GET("/logout", s.handleLogout)
	}

	verified := s.engine.Group("/")
	verified.Use(s.auth.RequireSession())
	{
		verified.GET("/select-team", s.handleTeamList)
		verified.GET("/teams/new", s.handleTeamNew)
		verified.POST("/teams", s.handleTeamCreate)
		verified.GET("/teams/:id/edit", s.handleTeamEdit)
		verified.POST("/teams/:id", s.handleTeamUpdate)
		verified.POST("/teams/:id/delete", s.handleTeamDelete)

		verified.GET("/team/:team_id", s.handleBoard)
		verified.GET("/team/:team_id/tasks/new", s.handleTaskNew)
		verified.POST("/team/:team_id/tasks", s.handleTaskCreate)
		verified.GET("/team/:team_id/tasks/:task_id/edit", s.handleTaskEdit)
		verified.POST("/team/:team_id/tasks/:task_id", s.handleTaskUpdate)
		verified.POST("/team/:team_id/tasks/:task_id/delete", s.handleTaskDelete)

		verified.GET("/profile", s.handleProfile)
		verified.POST("/profile", s.handleProfileUpdate)
	}

	s.engine.NoRoute(func(c *gin.Context) {
		s.respondInFormat(c, http.StatusNotFound, gin.H{"error": "bad path"}, "error.html")
	})
}

func InitAndServe(confPath string) {
	// load configuration
	config := loadConfig(confPath)
	logger.Init(config.LogLevel)
	logger.Info().Msg(config.toString())

	setGinMode(config.ApiGinMode)
	s := newServer(config)

	// serve http
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", config.Ip, config.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: time.Second * 5,
	}

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Str("backend", config.BackendURL).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	<-ctx.Done()

	stop()
	logger.Info().Msg("shutting down gracefully, press Ctrl+C again to force")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info().Msg("Server exiting")
}

func setGinMode(mode string) {
	switch strings.ToLower(mode) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "envgin":
		gin.SetMode(gin.EnvGinMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}

func wantsJSON(c *gin.Context) bool {
	return strings.EqualFold(c.Query("format"), "json") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}

func (s *server) respondInFormat(c *gin.Context, status int, data any, templateName string) {
	// query param takes priority, then the Accept header
	format := strings.ToLower(c.Query("format"))
	if format == "" {
		format = "html"
		if strings.Contains(c.GetHeader("Accept"), "application/json") {
			format = "json"
		}
	}

	switch format {
	case "json":
		c.JSON(status, data)

	case "xml":
		c.XML(status, data)

	case "html":
		if templateName == "" || !s.templates {
			c.JSON(status, data)
			return
		}
		c.HTML(status, templateName, data)

	default:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "unsupported format " + format})
	}
}

// done finishes a successful mutation: browsers are sent back to the owning screen,
// API callers get the result.
func (s *server) done(c *gin.Context, status int, data any, redirect string) {
	if wantsJSON(c) {
		c.JSON(status, data)
		return
	}
	c.Redirect(http.StatusSeeOther, redirect)
}

// fail renders err uniformly across screens.
func (s *server) fail(c *gin.Context, err error) {
	var (
		apiErr *gateway.APIError
		netErr *gateway.NetworkError
		valErr *utils.ValidationError
	)

	switch {
	case errors.As(err, &valErr):
		s.respondInFormat(c, http.StatusUnprocessableEntity, gin.H{"error": valErr.Message, "field": valErr.Field}, "error.html")
	case errors.Is(err, authmw.ErrNoSession), errors.Is(err, authmw.ErrMalformedToken):
		s.auth.SessionFor(c).Logout()
		if wantsJSON(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Redirect(http.StatusSeeOther, loginPath)
	case errors.As(err, &apiErr):
		logger.Ctx(c.Request.Context()).Warn().Err(err).Int("status", apiErr.Status).Str("path", c.Request.URL.Path).Msg("backend rejected the call")
		s.respondInFormat(c, apiErr.Status, gin.H{"error": err.Error()}, "error.html")
	case errors.As(err, &netErr):
		logger.Ctx(c.Request.Context()).Error().Err(netErr.Err).Str("method", netErr.Method).Str("call", netErr.Path).Msg("backend unreachable")
		s.respondInFormat(c, http.StatusBadGateway, gin.H{"error": err.Error()}, "error.html")
	default:
		logger.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		s.respondInFormat(c, http.StatusInternalServerError, gin.H{"error": "internal error"}, "error.html")
	}
}
