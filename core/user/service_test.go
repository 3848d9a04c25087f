package user_test

import (
	"context"
	"net/mail"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/score"
	"github.com/trezcool/tawjih/core/user"
	inmemdb "github.com/trezcool/tawjih/storage/database/inmem"
	testutil "github.com/trezcool/tawjih/tests"
)

type mailerStub struct {
	sent []*core.EmailMessage
}

func (m *mailerStub) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

type tokenMaker interface {
	MakeToken(usr user.User) (string, error)
}

type fixture struct {
	svc    user.Service
	repo   user.Repository
	mailer *mailerStub
}

func setup() fixture {
	repo := inmemdb.NewUserRepository(inmemdb.Open())
	mailer := new(mailerStub)
	return fixture{
		svc:    user.NewServiceMock(repo, mailer, core.NewTestConfig()),
		repo:   repo,
		mailer: mailer,
	}
}

func TestService_Register(t *testing.T) {
	f := setup()
	validate, _ := testutil.NewValidator()
	ctx := context.Background()

	ru := user.RegisterUser{
		Name:            " Amal ",
		Email:           " AMAL@Example.com ",
		BacStream:       "Mathematics",
		Password:        testutil.Password,
		PasswordConfirm: testutil.Password,
	}
	require.NoError(t, ru.Validate(ctx, validate, f.svc))
	usr, err := f.svc.Register(ctx, ru)
	require.NoError(t, err)
	assert.Equal(t, "Amal", usr.Name)
	assert.Equal(t, "amal@example.com", usr.Email)
	assert.Equal(t, score.Mathematics, usr.BacStream)
	assert.True(t, usr.IsActive)
	assert.True(t, usr.IsStudent())
	assert.False(t, usr.IsAdmin())
	assert.NoError(t, usr.CheckPassword(testutil.Password))

	got, err := f.svc.GetByEmail(ctx, "  Amal@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	dup := user.RegisterUser{Name: "x", Email: "amal@example.com", Password: testutil.Password, PasswordConfirm: testutil.Password}
	err = dup.Validate(ctx, validate, f.svc)
	var verr *core.ValidationError
	if assert.True(t, errors.As(err, &verr)) {
		assert.Equal(t, map[string]string{"email": user.ErrEmailExists.Error()}, verr.FieldMap())
	}
}

func TestService_Update(t *testing.T) {
	f := setup()
	ctx := context.Background()
	usr := testutil.FakeUser(t, f.repo)
	inactive := false

	got, err := f.svc.Update(ctx, usr.ID, user.UpdateUser{City: "صفاقس", IsActive: &inactive, Password: "N3w-Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, usr.Name, got.Name)
	assert.Equal(t, "صفاقس", got.City)
	assert.False(t, got.IsActive)
	assert.NoError(t, got.CheckPassword("N3w-Passw0rd!"))

	_, err = f.svc.Update(ctx, "nope", user.UpdateUser{})
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
}

func TestService_ReminderRecipients(t *testing.T) {
	f := setup()
	ctx := context.Background()
	amal := testutil.CreateUser(t, f.repo, "Amal", "amal@example.com", testutil.Password, nil, true)
	testutil.CreateUser(t, f.repo, "Sami", "sami@example.com", testutil.Password, nil, false)
	admin := testutil.CreateUser(t, f.repo, "Admin", "admin@example.com", testutil.Password, user.AdminRoles, true)

	got, err := f.svc.ReminderRecipients(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []mail.Address{
		{Name: amal.Name, Address: amal.Email},
		{Name: admin.Name, Address: admin.Email},
	}, got, "only active users are reminded")
}

func TestService_PasswordReset(t *testing.T) {
	f := setup()
	ctx := context.Background()
	usr := testutil.FakeUser(t, f.repo)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, usr.Email))
	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, "password_reset", msg.TemplateName)
	assert.Equal(t, []mail.Address{{Name: usr.Name, Address: usr.Email}}, msg.To)

	assert.Equal(t, user.ErrNotFound, errors.Cause(f.svc.RequestPasswordReset(ctx, "ghost@example.com")))

	token, err := f.svc.(tokenMaker).MakeToken(usr)
	require.NoError(t, err)

	tests := []struct {
		name    string
		rp      user.ResetUserPassword
		wantErr bool
	}{
		{name: "bad uid", rp: user.ResetUserPassword{UID: "lol", Token: token, Password: "N3w-Passw0rd!"}, wantErr: true},
		{name: "bad token", rp: user.ResetUserPassword{UID: user.EncodeUID(usr), Token: "lol", Password: "N3w-Passw0rd!"}, wantErr: true},
		{name: "valid", rp: user.ResetUserPassword{UID: user.EncodeUID(usr), Token: token, Password: "N3w-Passw0rd!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.ResetPassword(ctx, tt.rp)
			if tt.wantErr {
				var verr *core.ValidationError
				assert.True(t, errors.As(err, &verr))
				return
			}
			require.NoError(t, err)
			got, err := f.svc.GetByID(ctx, usr.ID)
			require.NoError(t, err)
			assert.NoError(t, got.CheckPassword("N3w-Passw0rd!"))
		})
	}
}

func TestService_InactiveUserCannotResetPassword(t *testing.T) {
	f := setup()
	usr := testutil.CreateUser(t, f.repo, "Sami", "sami@example.com", testutil.Password, nil, false)
	err := f.svc.RequestPasswordReset(context.Background(), usr.Email)
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
	assert.Empty(t, f.mailer.sent)
}
