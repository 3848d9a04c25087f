package main

import (
	"log"
	"os"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/calendar"
	"github.com/trezcool/tawjih/core/university"
	"github.com/trezcool/tawjih/core/user"
	appfs "github.com/trezcool/tawjih/fs"
	"github.com/trezcool/tawjih/services/email"
	"github.com/trezcool/tawjih/services/logger"
	"github.com/trezcool/tawjih/storage/database"
	"github.com/trezcool/tawjih/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("setting up database", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	if err = db.Ping(); err != nil {
		logger.Fatal("pinging database", err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	core.ParseEmailTemplates(appfs.FS, "templates", conf, logger)
	usrRepo := sqlxrepos.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, mailSvc, conf, logger)

	// start CLI
	cli := commandLine{
		db:      db.DB,
		usrRepo: usrRepo,
		uniSvc:  university.NewService(sqlxrepos.NewUniversityRepository(db)),
		calSvc:  calendar.NewService(sqlxrepos.NewEventRepository(db), usrSvc, mailSvc),
		assets:  appfs.FS,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}
