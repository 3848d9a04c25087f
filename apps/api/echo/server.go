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

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/appstate"
	"github.com/trezcool/tawjih/core/assistant"
	"github.com/trezcool/tawjih/core/calendar"
	"github.com/trezcool/tawjih/core/matching"
	"github.com/trezcool/tawjih/core/program"
	"github.com/trezcool/tawjih/core/score"
	"github.com/trezcool/tawjih/core/university"
	"github.com/trezcool/tawjih/core/user"
)

type (
	Deps struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		UserSvc       user.Service
		UniversitySvc university.Service
		ProgramSvc    program.Service
		CalendarSvc   calendar.Service
		AssistantSvc  assistant.Service
		Engine        *matching.Engine
		Directory     *university.Directory
		StateStore    *appstate.Store
		Bonus         score.BonusProvider
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(ctx context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		address  string
		deps     *Deps
		app      *echo.Echo
		auth     *authenticator
		metrics  *metrics
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

// NewServer wires the API. `shutdown` may be nil, in which case the server listens to SIGINT and SIGTERM itself.
func NewServer(address string, shutdown chan os.Signal, deps *Deps) Server {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	}
	if deps.Bonus == nil {
		deps.Bonus = score.NoGeographicBonus{}
	}
	s := &server{
		address:  address,
		deps:     deps,
		app:      echo.New(),
		auth:     newAuthenticator(deps.Conf),
		metrics:  newMetrics(),
		errors:   make(chan error, 1),
		shutdown: shutdown,
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORS())
	s.app.Use(s.metrics.middleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)
	s.app.GET("/metrics", echo.WrapHandler(s.metrics.handler()))

	api := s.app.Group("/api")
	jwt := s.auth.middleware()
	chatLimit := newIPRateLimiter(conf.RateLimit.Chat, conf.RateLimit.Burst).middleware
	authLimit := newIPRateLimiter(conf.RateLimit.Auth, conf.RateLimit.Burst).middleware

	registerScoreAPI(api, s.deps)
	registerRecommendationAPI(api, s.deps, s.metrics)
	registerUniversityAPI(api, s.deps)
	registerCalendarAPI(api, s.deps)
	registerProgramAPI(api, s.deps)
	registerAuthAPI(api, jwt, authLimit, s.deps, s.auth)
	registerAssistantAPI(api, chatLimit, s.deps, s.metrics)
	registerStateAPI(api, jwt, s.deps)

	admin := api.Group("/admin", jwt, adminMiddleware())
	registerAdminUserAPI(admin, s.deps, s.auth)
	registerAdminUniversityAPI(admin, s.deps)
	registerAdminProgramAPI(admin, s.deps)
	registerAdminCalendarAPI(admin, s.deps)
}

func (s *server) Start() {
	if err := s.app.Start(s.address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Tawjih API!")
}
