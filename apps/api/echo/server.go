package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/karatasi/core"
	"github.com/trezcool/karatasi/core/identity"
	"github.com/trezcool/karatasi/core/submission"
	"github.com/trezcool/karatasi/core/template"
)

type (
	// ServerDeps is everything a Server needs to serve the API.
	ServerDeps struct {
		Conf          *core.Config
		Logger        core.Logger
		IdentitySvc   *identity.Service
		SubmissionSvc *submission.Service
		Templates     *template.Resolver
		Validate      *validator.Validate
		Translator    ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() chan error
		ShutdownSignal() chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: shutdown,
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)
	s.app.Static("/media", conf.Media.Root)

	v1 := s.app.Group("/v1")
	auth := authMiddleware(s.deps.IdentitySvc)

	registerAuthAPI(v1, auth, s.deps.IdentitySvc, s.deps.Validate)
	registerSubmissionAPI(v1, auth, s.deps.SubmissionSvc, s.deps.Validate)
	registerTemplateAPI(v1, s.deps.Templates, s.deps.Logger)
}

func (s *server) Start() {
	s.errs <- s.app.Start(s.deps.Conf.Server.Address())
}

func (s *server) Errors() chan error {
	return s.errs
}

func (s *server) ShutdownSignal() chan os.Signal {
	return s.shutdown
}

// signalShutdown sends a SIGTERM down the shutdown channel when a fatal
// (non-trusted) error is caught.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Karatasi API!")
}
