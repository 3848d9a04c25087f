// Package testutil holds the fixtures shared by the test suites.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/calendar"
	"github.com/trezcool/tawjih/core/program"
	"github.com/trezcool/tawjih/core/score"
	"github.com/trezcool/tawjih/core/university"
	"github.com/trezcool/tawjih/core/user"
)

// Password satisfies the password policy.
const Password = "Tawj!h-2024"

var faker = gofakeit.New(0)

// NewValidator returns a validator with every custom tag and translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	score.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	calendar.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if roles == nil {
		roles = []string{user.RoleStudent}
	}
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		BacStream: score.Mathematics,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser(): %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

// FakeUser creates an active user with a random name and email, and the Password.
func FakeUser(t *testing.T, repo user.Repository, roles ...string) user.User {
	t.Helper()
	if len(roles) == 0 {
		roles = nil
	}
	return CreateUser(t, repo, faker.Name(), uuid.New().String()[:8]+"."+faker.Email(), Password, roles, true)
}

func CreateUniversity(t *testing.T, repo university.Repository, name, nameFr string, region score.Region) university.University {
	t.Helper()
	now := time.Now().UTC()
	uni, err := repo.CreateUniversity(context.Background(), university.University{
		ID:        uuid.New().String(),
		Name:      name,
		NameFr:    nameFr,
		Website:   faker.URL(),
		Email:     faker.Email(),
		Phone:     faker.Phone(),
		Address:   faker.Street(),
		Region:    region,
		RegionFr:  region.Fr(),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateUniversity(): %v", err)
	}
	return uni
}

func CreateProgram(t *testing.T, repo program.Repository, uniID, name string, field score.Stream, lastScore ...float64) program.Program {
	t.Helper()
	now := time.Now().UTC()
	p := program.Program{
		ID:           uuid.New().String(),
		UniversityID: uniID,
		Name:         name,
		Field:        field,
		Degree:       "الإجازة في " + name,
		Code:         faker.Numerify("####"),
		Duration:     null.StringFrom("3 سنوات"),
		Description:  faker.Sentence(6),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if len(lastScore) > 0 {
		p.LastScore = null.Float64From(lastScore[0])
	}
	p, err := repo.CreateProgram(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateProgram(): %v", err)
	}
	return p
}

func CreateEvent(t *testing.T, repo calendar.Repository, title string, date time.Time, cat calendar.Category) calendar.Event {
	t.Helper()
	now := time.Now().UTC()
	y, m, d := date.UTC().Date()
	ev, err := repo.CreateEvent(context.Background(), calendar.Event{
		ID:            uuid.New().String(),
		Title:         title,
		TitleFr:       title + " (fr)",
		Date:          time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Description:   faker.Sentence(8),
		DescriptionFr: faker.Sentence(8),
		Category:      cat,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateEvent(): %v", err)
	}
	return ev
}
