package university

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/score"
)

var (
	ErrNotFound   = errors.New("university not found")
	ErrNameExists = errors.New("a university with this name already exists")
)

type (
	Repository interface {
		// CheckNameUniqueness fails with ErrNameExists if another university uses the Arabic or French name.
		CheckNameUniqueness(ctx context.Context, name, nameFr string, excluded ...University) error
		CreateUniversity(ctx context.Context, uni University) (University, error)
		// QueryUniversities applies AND operation on available QueryFilter fields.
		QueryUniversities(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]University, error)
		GetUniversity(ctx context.Context, id string) (University, error)
		UpdateUniversity(ctx context.Context, uni University) (University, error)
		DeleteUniversities(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckUniqueness(ctx context.Context, name, nameFr string, excluded ...University) error
		Create(ctx context.Context, nu NewUniversity) (University, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]University, error)
		GetByID(ctx context.Context, id string) (University, error)
		Update(ctx context.Context, id string, uu UpdateUniversity) (University, error)
		Delete(ctx context.Context, ids ...string) error
		// Import creates the universities whose names are not taken yet and returns how many were created.
		Import(ctx context.Context, unis []University) (int, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckUniqueness(ctx context.Context, name, nameFr string, excluded ...University) error {
	if err := svc.repo.CheckNameUniqueness(ctx, name, nameFr, excluded...); err != nil {
		if errors.Cause(err) == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nu NewUniversity) (University, error) {
	region, _ := score.ParseRegion(nu.Region)
	now := time.Now().UTC()
	uni := University{
		ID:        uuid.New().String(),
		Name:      nu.Name,
		NameFr:    nu.NameFr,
		Website:   nu.Website,
		Email:     nu.Email,
		Phone:     nu.Phone,
		Address:   nu.Address,
		Region:    region,
		RegionFr:  region.Fr(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateUniversity(ctx, uni)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]University, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	return svc.repo.QueryUniversities(ctx, filter, ordering...)
}

func (svc *service) GetByID(ctx context.Context, id string) (University, error) {
	return svc.repo.GetUniversity(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, uu UpdateUniversity) (University, error) {
	orig, err := svc.repo.GetUniversity(ctx, id)
	if err != nil {
		return University{}, err
	}
	uu.merge(orig)
	region, _ := score.ParseRegion(uu.Region)

	orig.Name = uu.Name
	orig.NameFr = uu.NameFr
	orig.Website = uu.Website
	orig.Email = uu.Email
	orig.Phone = uu.Phone
	orig.Address = uu.Address
	orig.Region = region
	orig.RegionFr = region.Fr()
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUniversity(ctx, orig)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteUniversities(ctx, ids...)
}

func (svc *service) Import(ctx context.Context, unis []University) (int, error) {
	var created int
	for _, u := range unis {
		if err := svc.repo.CheckNameUniqueness(ctx, u.Name, u.NameFr); err != nil {
			if errors.Cause(err) == ErrNameExists {
				continue
			}
			return created, errors.Wrapf(err, "checking %q", u.Name)
		}
		now := time.Now().UTC()
		u.ID = uuid.New().String()
		u.RegionFr = u.Region.Fr()
		u.CreatedAt, u.UpdatedAt = now, now
		if _, err := svc.repo.CreateUniversity(ctx, u); err != nil {
			return created, errors.Wrapf(err, "creating %q", u.Name)
		}
		created++
	}
	return created, nil
}

// Validate cleans and validates the payload, then checks name uniqueness.
func (nu *NewUniversity) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	nu.clean()
	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Name, nu.NameFr)
}

func (uu *UpdateUniversity) Validate(ctx context.Context, orig University, validate *validator.Validate, svc Service) error {
	uu.merge(orig)
	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, uu.Name, uu.NameFr, orig)
}
