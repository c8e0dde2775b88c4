// Package rest exposes UserService over HTTP/JSON using gin.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/logging"
	"github.com/dmitrijs2005/devconnector/internal/server/auth"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/gin-gonic/gin"
)

// UserService is the account logic the handlers call into.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Authenticator resolves the caller of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (auth.Identity, error)
}

type RESTServer struct {
	address         string
	users           UserService
	gate            Authenticator
	logger          logging.Logger
	shutdownTimeout time.Duration
	engine          *gin.Engine
}

func NewRESTServer(a string, l logging.Logger, us UserService, gate Authenticator, shutdownTimeout time.Duration) *RESTServer {
	s := &RESTServer{
		address:         a,
		users:           us,
		gate:            gate,
		logger:          l.With("module", "rest_server"),
		shutdownTimeout: shutdownTimeout,
	}
	s.engine = s.newRouter()
	return s
}

// Handler returns the routed gin engine.
func (s *RESTServer) Handler() http.Handler {
	return s.engine
}

func (s *RESTServer) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(s.recovery(), s.requestID(), s.accessLog())

	api := r.Group("/api")
	api.POST("/users", s.registerUser)
	api.POST("/auth", s.login)
	api.GET("/auth", s.requireAuth(), s.getAuthUser)

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most shutdownTimeout.
func (s *RESTServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *RESTServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping REST server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting REST server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
