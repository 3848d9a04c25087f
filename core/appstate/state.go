// Package appstate keeps the per-user application state: UI language, student profile and favorite programs.
package appstate

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/matching"
	"github.com/trezcool/tawjih/core/score"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrInvalidLanguage   = errors.New("language must be ar or fr")
	ErrFavoriteExists    = errors.New("program already in favorites")
	ErrFavoriteNotFound  = errors.New("favorite not found")
	ErrFavoriteProgramID = errors.New("favorite program id is required")
)

type StudentProfile struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	BacStream score.Stream `json:"bac_stream"`
	BacYear   int          `json:"bac_year"`
	Scores    score.Scores `json:"scores"`
	FG        float64      `json:"fg_score"`
	T         float64      `json:"t_score"`
}

type Favorite struct {
	ID        string           `json:"id"`
	ProgramID string           `json:"program_id"`
	Program   matching.Program `json:"program"`
	Notes     string           `json:"notes,omitempty"`
	AddedAt   time.Time        `json:"added_at"`
}

type State struct {
	Language  string         `json:"language"`
	Profile   StudentProfile `json:"student_profile"`
	Favorites []Favorite     `json:"favorite_programs"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// New returns the state of a user seen for the first time.
func New() State {
	return State{
		Language: core.LangAr,
		Profile: StudentProfile{
			BacStream: score.Arts,
			BacYear:   NowFunc().Year(),
			Scores:    score.Scores{},
		},
		Favorites: []Favorite{},
	}
}

func (s *State) SetLanguage(lang string) error {
	lang = core.CleanString(lang, true /* lower */)
	if lang != core.LangAr && lang != core.LangFr {
		return ErrInvalidLanguage
	}
	s.Language = lang
	return nil
}

func (s *State) SetProfile(p StudentProfile) {
	if p.Scores == nil {
		p.Scores = score.Scores{}
	}
	s.Profile = p
}

// CalculateScores stores the stream and grades of the profile along with the FG and T they give.
// The profile is left untouched when the grades are incomplete.
func (s *State) CalculateScores(stream score.Stream, scores score.Scores, bonus score.BonusProvider, governorate string) error {
	fg, err := score.ComputeFG(stream, scores)
	if err != nil {
		return err
	}
	var geo float64
	if bonus != nil {
		geo = bonus.GeographicBonus(governorate)
	}
	s.Profile.BacStream = stream
	s.Profile.Scores = scores
	s.Profile.FG = fg
	s.Profile.T = score.ComputeT(fg, 0, geo)
	return nil
}

// AddFavorite appends `fav` unless a favorite with the same ID is already there.
func (s *State) AddFavorite(fav Favorite) (Favorite, error) {
	if fav.ProgramID == "" {
		fav.ProgramID = fav.Program.Code
	}
	if fav.ProgramID == "" {
		return Favorite{}, ErrFavoriteProgramID
	}
	if fav.ID == "" {
		fav.ID = fav.ProgramID
	}
	for _, f := range s.Favorites {
		if f.ID == fav.ID {
			return Favorite{}, ErrFavoriteExists
		}
	}
	if fav.AddedAt.IsZero() {
		fav.AddedAt = NowFunc().UTC()
	}
	s.Favorites = append(s.Favorites, fav)
	return fav, nil
}

func (s *State) RemoveFavorite(id string) error {
	for i, f := range s.Favorites {
		if f.ID == id {
			s.Favorites = append(s.Favorites[:i], s.Favorites[i+1:]...)
			return nil
		}
	}
	return ErrFavoriteNotFound
}
