// Package httpapi exposes the user and todo services as a JSON REST API on
// top of gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type userService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req services.LoginRequest) (*models.User, string, error)
	ResolveSession(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
	GetProfile(user *models.User) (*models.User, error)
	TokenValidity() time.Duration
}

type todoService interface {
	Create(ctx context.Context, user *models.User, req services.CreateTodoRequest) (*models.Todo, error)
	List(ctx context.Context, user *models.User) ([]*models.Todo, error)
	GetOne(ctx context.Context, user *models.User, id string) (*models.Todo, error)
	Update(ctx context.Context, user *models.User, id string, req services.UpdateTodoRequest) (*models.Todo, error)
	Delete(ctx context.Context, user *models.User, id string) error
}

// Pinger reports storage health for /healthz. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a plain function, e.g. a Redis ping, to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type HTTPServer struct {
	cfg     *config.Config
	logger  logging.Logger
	users   userService
	todos   todoService
	health  []Pinger
	metrics *metrics.Metrics
	router  *gin.Engine
}

// NewHTTPServer builds the router. health may be empty, in which case
// /healthz always reports ok.
func NewHTTPServer(cfg *config.Config, l logging.Logger, us userService, ts todoService, m *metrics.Metrics, health ...Pinger) *HTTPServer {
	if m == nil {
		m = metrics.New()
	}
	s := &HTTPServer{
		cfg:     cfg,
		logger:  l.With("module", "http_server"),
		users:   us,
		todos:   ts,
		health:  health,
		metrics: m,
	}
	s.router = s.newRouter()
	return s
}

// Handler returns the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler { return s.router }

func (s *HTTPServer) newRouter() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(s.requestLogger())
	r.Use(s.recovery())
	r.Use(s.observe())
	if s.cfg.ClientURL != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{s.cfg.ClientURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Server Running Successfully")
	})
	r.GET("/healthz", s.handleHealthz)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	users := r.Group("/api/users")
	users.POST("/create", s.handleRegister)
	users.POST("/login", s.handleLogin)
	{
		authed := users.Group("")
		authed.Use(s.requireAuth())
		authed.GET("/profile", s.handleProfile)
		authed.GET("/logout", s.handleLogout)
	}

	todos := r.Group("/api/todos")
	todos.Use(s.requireAuth())
	todos.POST("/create-todo", s.handleCreateTodo)
	todos.GET("/get-todos", s.handleListTodos)
	todos.GET("/get-todo/:id", s.handleGetTodo)
	todos.PUT("/update-todo/:id", s.handleUpdateTodo)
	todos.DELETE("/delete-todo/:id", s.handleDeleteTodo)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not Found: " + c.Request.URL.Path})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// cfg.ShutdownTimeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.cfg.HTTPAddr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}

func (s *HTTPServer) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for _, p := range s.health {
		if err := p.PingContext(ctx); err != nil {
			s.logger.Warn(ctx, "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
