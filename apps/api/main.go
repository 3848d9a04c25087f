package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tawjih/apps/api/echo"
	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/appstate"
	"github.com/trezcool/tawjih/core/assistant"
	"github.com/trezcool/tawjih/core/calendar"
	"github.com/trezcool/tawjih/core/matching"
	"github.com/trezcool/tawjih/core/program"
	"github.com/trezcool/tawjih/core/score"
	"github.com/trezcool/tawjih/core/university"
	"github.com/trezcool/tawjih/core/user"
	appfs "github.com/trezcool/tawjih/fs"
	"github.com/trezcool/tawjih/services/email"
	"github.com/trezcool/tawjih/services/llm"
	"github.com/trezcool/tawjih/services/logger"
	"github.com/trezcool/tawjih/storage/database"
	"github.com/trezcool/tawjih/storage/database/inmem"
	"github.com/trezcool/tawjih/storage/database/sqlx"
	"github.com/trezcool/tawjih/storage/statestore"
)

const (
	programsPath     = "assets/data/programs.json"
	universitiesPath = "assets/data/universities.yaml"
	locationsPath    = "assets/data/locations.yaml"
	calendarPath     = "assets/data/calendar.yaml"
)

type repositories struct {
	user       user.Repository
	university university.Repository
	program    program.Repository
	event      calendar.Repository
	close      func() error
	inMemory   bool
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	ctx := context.Background()

	// set up DB
	repos, err := setUpRepositories(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = repos.close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up state store
	persister, closeState, err := statestore.NewPersister(ctx, conf.State)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up state store: %v", err), err)
	}
	defer func() {
		if err = closeState(); err != nil {
			logger.Error("Failed to close state store", err)
		}
	}()

	// set up reference data
	directory, err := university.LoadDirectory(appfs.FS, universitiesPath, locationsPath)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading universities directory: %v", err), err)
	}
	engine := matching.NewEngine(matching.FromFS(appfs.FS, programsPath), directory, logger)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(repos.user, mailSvc, conf, logger)
	uniSvc := university.NewService(repos.university)
	calSvc := calendar.NewService(repos.event, usrSvc, mailSvc)

	var model assistant.LLM
	if conf.Assistant.GeminiAPIKey != "" {
		if model, err = llm.NewGeminiClient(conf.Assistant); err != nil {
			logger.Fatal(fmt.Sprintf("setting up LLM: %v", err), err)
		}
	} else {
		logger.Warn("no Gemini API key: the assistant answers with rules only")
	}

	if repos.inMemory {
		seedMemory(ctx, uniSvc, calSvc, directory, logger)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	score.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	calendar.InitValidators(validate, translator)

	core.ParseEmailTemplates(appfs.FS, "templates", conf, logger)

	user.LoadCommonPasswords(appfs.FS, "assets/common-passwords.txt.gz", logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		conf.Server.Address(),
		nil,
		&echoapi.Deps{
			Conf:          conf,
			Logger:        logger,
			Validate:      validate,
			Translator:    translator,
			UserSvc:       usrSvc,
			UniversitySvc: uniSvc,
			ProgramSvc:    program.NewService(repos.program, uniSvc),
			CalendarSvc:   calSvc,
			AssistantSvc:  assistant.NewService(model, engine, conf, logger),
			Engine:        engine,
			Directory:     directory,
			StateStore:    appstate.NewStore(persister, nil),
			Bonus:         score.NoGeographicBonus{},
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(ctx, conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpRepositories opens the Postgres database, or in-memory tables when the engine is "memory".
func setUpRepositories(conf *core.Config) (repositories, error) {
	if conf.Database.Engine == "memory" {
		db := inmemdb.Open()
		return repositories{
			user:       inmemdb.NewUserRepository(db),
			university: inmemdb.NewUniversityRepository(db),
			program:    inmemdb.NewProgramRepository(db),
			event:      inmemdb.NewEventRepository(db),
			close:      func() error { return nil },
			inMemory:   true,
		}, nil
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		return repositories{}, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return repositories{}, err
	}
	if err = database.Migrate(db.DB); err != nil {
		_ = db.Close()
		return repositories{}, err
	}
	return repositories{
		user:       sqlxrepos.NewUserRepository(db),
		university: sqlxrepos.NewUniversityRepository(db),
		program:    sqlxrepos.NewProgramRepository(db),
		event:      sqlxrepos.NewEventRepository(db),
		close:      db.Close,
	}, nil
}

// seedMemory loads the embedded universities and calendar, since in-memory tables start empty.
func seedMemory(ctx context.Context, uniSvc university.Service, calSvc calendar.Service, dir *university.Directory, logger core.Logger) {
	if _, err := uniSvc.Import(ctx, dir.Universities()); err != nil {
		logger.Error(fmt.Sprintf("seeding universities: %v", err), err)
	}
	events, err := calendar.LoadEvents(appfs.FS, calendarPath)
	if err != nil {
		logger.Error(fmt.Sprintf("loading calendar: %v", err), err)
		return
	}
	if _, err = calSvc.Import(ctx, events); err != nil {
		logger.Error(fmt.Sprintf("seeding calendar: %v", err), err)
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
