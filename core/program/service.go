package program

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/score"
	"github.com/trezcool/tawjih/core/university"
)

var (
	ErrNotFound           = errors.New("program not found")
	ErrCodeExists         = errors.New("a program with this code already exists")
	errUniversityNotFound = "university not found"
)

type (
	Repository interface {
		// CheckCodeUniqueness fails with ErrCodeExists if another program uses `code`.
		CheckCodeUniqueness(ctx context.Context, code string, excluded ...Program) error
		CreateProgram(ctx context.Context, p Program) (Program, error)
		// QueryPrograms applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on the name, degree, code, specialization or description.
		QueryPrograms(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Program, error)
		GetProgram(ctx context.Context, id string) (Program, error)
		UpdateProgram(ctx context.Context, p Program) (Program, error)
		DeletePrograms(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckUniqueness(ctx context.Context, code string, excluded ...Program) error
		CheckUniversity(ctx context.Context, id string) error
		Create(ctx context.Context, np NewProgram) (Program, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Program, error)
		GetByID(ctx context.Context, id string) (Program, error)
		ListByUniversity(ctx context.Context, universityID string) ([]Program, error)
		Search(ctx context.Context, q string) ([]Program, error)
		Update(ctx context.Context, id string, up UpdateProgram) (Program, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo   Repository
		uniSvc university.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, uniSvc university.Service) Service {
	return &service{repo: repo, uniSvc: uniSvc}
}

func (svc *service) CheckUniqueness(ctx context.Context, code string, excluded ...Program) error {
	if code == "" {
		return nil
	}
	if err := svc.repo.CheckCodeUniqueness(ctx, code, excluded...); err != nil {
		if errors.Cause(err) == ErrCodeExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

// CheckUniversity reports a field validation error if the university does not exist.
func (svc *service) CheckUniversity(ctx context.Context, id string) error {
	if _, err := svc.uniSvc.GetByID(ctx, id); err != nil {
		if errors.Cause(err) == university.ErrNotFound {
			return core.NewValidationError(nil, core.FieldError{Field: "university_id", Error: errUniversityNotFound})
		}
		return errors.Wrap(err, "finding university")
	}
	return nil
}

func (svc *service) Create(ctx context.Context, np NewProgram) (Program, error) {
	field, err := score.ParseStream(np.Field)
	if err != nil {
		return Program{}, err
	}
	now := time.Now().UTC()
	p := Program{
		ID:             uuid.New().String(),
		UniversityID:   np.UniversityID,
		Name:           np.Name,
		Field:          field,
		Degree:         np.Degree,
		Code:           np.Code,
		Duration:       null.NewString(np.Duration, np.Duration != ""),
		Specialization: null.NewString(np.Specialization, np.Specialization != ""),
		SpecialNote:    null.NewString(np.SpecialNote, np.SpecialNote != ""),
		Description:    np.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if np.LastScore != nil {
		p.LastScore = null.Float64From(score.Round(*np.LastScore))
	}
	return svc.repo.CreateProgram(ctx, p)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Program, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	return svc.repo.QueryPrograms(ctx, filter, ordering...)
}

func (svc *service) GetByID(ctx context.Context, id string) (Program, error) {
	return svc.repo.GetProgram(ctx, id)
}

func (svc *service) ListByUniversity(ctx context.Context, universityID string) ([]Program, error) {
	return svc.repo.QueryPrograms(ctx, &QueryFilter{UniversityID: universityID})
}

func (svc *service) Search(ctx context.Context, q string) ([]Program, error) {
	return svc.repo.QueryPrograms(ctx, &QueryFilter{Search: core.CleanString(q)})
}

func (svc *service) Update(ctx context.Context, id string, up UpdateProgram) (Program, error) {
	orig, err := svc.repo.GetProgram(ctx, id)
	if err != nil {
		return Program{}, err
	}
	p := up.apply(orig)
	p.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateProgram(ctx, p)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeletePrograms(ctx, ids...)
}

// Validate cleans and validates the payload, then checks the code and the university.
func (np *NewProgram) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	np.clean()
	if err := validate.Struct(np); err != nil {
		return err
	}
	if err := svc.CheckUniversity(ctx, np.UniversityID); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, np.Code)
}

func (up *UpdateProgram) Validate(ctx context.Context, orig Program, validate *validator.Validate, svc Service) error {
	if err := validate.Struct(up); err != nil {
		return err
	}
	merged := up.apply(orig)
	if merged.UniversityID != orig.UniversityID {
		if err := svc.CheckUniversity(ctx, merged.UniversityID); err != nil {
			return err
		}
	}
	return svc.CheckUniqueness(ctx, merged.Code, orig)
}
