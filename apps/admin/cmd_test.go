package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/calendar"
	"github.com/trezcool/tawjih/core/university"
	"github.com/trezcool/tawjih/core/user"
	appfs "github.com/trezcool/tawjih/fs"
	"github.com/trezcool/tawjih/services/email"
	"github.com/trezcool/tawjih/services/logger"
	"github.com/trezcool/tawjih/storage/database/inmem"
	"github.com/trezcool/tawjih/tests"
)

var (
	usrRepo  user.Repository
	uniRepo  university.Repository
	evRepo   calendar.Repository
	mailSvc  *emailsvc.ConsoleServiceMock
	tmplConf = core.NewTestConfig()
)

func TestMain(m *testing.M) {
	lgr := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), tmplConf)
	lgr.Enable(false)
	core.ParseEmailTemplates(appfs.FS, "templates", tmplConf, lgr)
	m.Run()
}

func setup(t *testing.T) *commandLine {
	t.Helper()
	conf := core.NewTestConfig()

	db := inmemdb.Open()
	usrRepo = inmemdb.NewUserRepository(db)
	uniRepo = inmemdb.NewUniversityRepository(db)
	evRepo = inmemdb.NewEventRepository(db)
	mailSvc = emailsvc.NewConsoleServiceMock(conf)

	return &commandLine{
		usrRepo: usrRepo,
		uniSvc:  university.NewService(uniRepo),
		calSvc:  calendar.NewService(evRepo, user.NewServiceMock(usrRepo, mailSvc, conf), mailSvc),
		assets:  appfs.FS,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
}

func runCLI(t *testing.T, cli *commandLine, tt cliTest) error {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(tt.pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
	return cli.run(append([]string{"admin"}, tt.args...))
}

func checkErr(t *testing.T, tt cliTest, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		require.Error(t, err)
		assert.Equal(t, tt.wantErrStr, err.Error())
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, runCLI(t, cli, tt))
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	var gotCommand string
	var gotArgs []string
	gooseRunFunc = func(db *sql.DB, command string, args ...string) error {
		gotCommand, gotArgs = command, args
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "add_program_seats", "sql"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, runCLI(t, cli, tt))
		})
	}

	t.Run("passes arguments through", func(t *testing.T) {
		require.NoError(t, runCLI(t, cli, cliTest{args: []string{"migrate", "create", "add_program_seats", "sql"}}))
		assert.Equal(t, "create", gotCommand)
		assert.Equal(t, []string{"add_program_seats", "sql"}, gotArgs)
	})
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no name", args: []string{"adduser", "-email", "amira@tawjih.tn"}, pwd: testutil.Password, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-email", "amira@tawjih.tn", "-name", "Amira"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"adduser", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, runCLI(t, cli, tt))
		})
	}

	t.Run("create student", func(t *testing.T) {
		err := runCLI(t, cli, cliTest{args: []string{"adduser", "-email", " Amira@Tawjih.TN ", "-name", "Amira"}, pwd: testutil.Password})
		require.NoError(t, err)

		usr, err := usrRepo.GetUser(ctx, user.GetFilter{Email: "amira@tawjih.tn"})
		require.NoError(t, err)
		assert.NotEmpty(t, usr.ID)
		assert.Equal(t, "Amira", usr.Name)
		assert.True(t, usr.IsActive)
		assert.Equal(t, []string{user.RoleStudent}, usr.Roles)
		assert.NoError(t, usr.CheckPassword(testutil.Password))
	})

	t.Run("promote existing user", func(t *testing.T) {
		inactive := testutil.CreateUser(t, usrRepo, "Sami", "sami@tawjih.tn", "", nil, false)

		err := runCLI(t, cli, cliTest{args: []string{"adduser", "-email", "sami@tawjih.tn", "-name", "Sami B.", "-admin"}, pwd: "n3w-Pwd!"})
		require.NoError(t, err)

		usr, err := usrRepo.GetUser(ctx, user.GetFilter{ID: inactive.ID})
		require.NoError(t, err)
		assert.Equal(t, "Sami B.", usr.Name)
		assert.True(t, usr.IsActive)
		assert.True(t, usr.IsAdmin())
		assert.ElementsMatch(t, user.AllRoles, usr.Roles)
		assert.NoError(t, usr.CheckPassword("n3w-Pwd!"))
	})
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Amira", "amira@tawjih.tn", testutil.Password, nil, true)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@tawjih.tn"}, pwd: "lol", wantErr: user.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, runCLI(t, cli, tt))
		})
	}

	t.Run("reset", func(t *testing.T) {
		require.NoError(t, runCLI(t, cli, cliTest{args: []string{"resetpassword", "-email", "AMIRA@tawjih.tn"}, pwd: "lmao"}))

		refreshed, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
		require.NoError(t, err)
		assert.NotEqual(t, usr.PasswordHash, refreshed.PasswordHash)
		assert.NoError(t, refreshed.CheckPassword("lmao"))
	})
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	dir, err := university.LoadDirectory(appfs.FS, universitiesPath, locationsPath)
	require.NoError(t, err)
	events, err := calendar.LoadEvents(appfs.FS, calendarPath)
	require.NoError(t, err)

	require.NoError(t, runCLI(t, cli, cliTest{args: []string{"seed"}}))

	unis, err := uniRepo.QueryUniversities(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, unis, len(dir.Universities()))
	evs, err := evRepo.QueryEvents(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, evs, len(events))

	t.Run("twice", func(t *testing.T) {
		require.NoError(t, runCLI(t, cli, cliTest{args: []string{"seed"}}))

		unis, err := uniRepo.QueryUniversities(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, unis, len(dir.Universities()))
		evs, err := evRepo.QueryEvents(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, evs, len(events))
	})
}

func Test_commandLine_remind(t *testing.T) {
	cli := setup(t)

	calendar.NowFunc = func() time.Time { return time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC) }
	defer func() { calendar.NowFunc = time.Now }()

	testutil.FakeUser(t, usrRepo)
	testutil.FakeUser(t, usrRepo, user.RoleAdmin)
	testutil.CreateEvent(t, evRepo, "التوجيه الأولي", time.Date(2025, time.July, 11, 0, 0, 0, 0, time.UTC), calendar.PrimaryOrientation)
	testutil.CreateEvent(t, evRepo, "التوجيه النهائي", time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC), calendar.FinalOrientation)

	tests := []cliTest{
		{name: "bad window", args: []string{"remind", "-within", "lol"}, wantErrStr: `invalid value "lol" for flag -within: parse error`},
		{name: "negative window", args: []string{"remind", "-within", "-1h"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, runCLI(t, cli, tt))
		})
	}

	t.Run("default window", func(t *testing.T) {
		mailSvc.Reset()
		require.NoError(t, runCLI(t, cli, cliTest{args: []string{"remind"}}))
		sent := mailSvc.Sent()
		require.Len(t, sent, 2)
		assert.Equal(t, "مواعيد التوجيه القادمة (1)", sent[0].Subject)
	})

	t.Run("two weeks", func(t *testing.T) {
		mailSvc.Reset()
		require.NoError(t, runCLI(t, cli, cliTest{args: []string{"remind", "-within", "336h"}}))
		sent := mailSvc.Sent()
		require.Len(t, sent, 2)
		assert.Equal(t, "مواعيد التوجيه القادمة (2)", sent[0].Subject)
	})
}
