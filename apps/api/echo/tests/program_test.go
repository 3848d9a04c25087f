package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tawjih/core/program"
	"github.com/trezcool/tawjih/core/score"
	"github.com/trezcool/tawjih/core/user"
	"github.com/trezcool/tawjih/tests"
)

func Test_programApi_public(t *testing.T) {
	setup(t)

	utm := testutil.CreateUniversity(t, uniRepo, "جامعة تونس المنار", "Université de Tunis El Manar", score.North)
	usf := testutil.CreateUniversity(t, uniRepo, "جامعة صفاقس", "Université de Sfax", score.South)
	maths := testutil.CreateProgram(t, progRepo, utm.ID, "الرياضيات", score.Mathematics, 140)
	physics := testutil.CreateProgram(t, progRepo, utm.ID, "الفيزياء", score.Mathematics)
	cs := testutil.CreateProgram(t, progRepo, usf.ID, "الإعلامية", score.ComputerScience, 150)

	tests := []httpTest{
		{name: "all, by name", path: "/api/programs", wantData: marshallList(t, cs, maths, physics)},
		{name: "by last score desc", path: "/api/programs?ordering=-last_score", wantData: marshallList(t, cs, maths, physics)},
		{name: "by last score", path: "/api/programs?ordering=last_score", wantData: marshallList(t, physics, maths, cs)},
		{name: "field (ar)", path: "/api/programs?field=" + url.QueryEscape(string(score.Mathematics)), wantData: marshallList(t, maths, physics)},
		{name: "field (en)", path: "/api/programs?field=" + url.QueryEscape("Computer Science"), wantData: marshallList(t, cs)},
		{name: "unknown field", path: "/api/programs?field=lol", wantData: marshallList(t)},
		{name: "university", path: "/api/programs?university_id=" + usf.ID, wantData: marshallList(t, cs)},
		{
			name:     "university and field",
			path:     "/api/programs?university_id=" + utm.ID + "&field=" + url.QueryEscape("Computer Science"),
			wantData: marshallList(t),
		},
		{name: "search", path: "/api/programs/search?q=" + url.QueryEscape("الفيزياء"), wantData: marshallList(t, physics)},
		{name: "search by code", path: "/api/programs/search?q=" + cs.Code, wantData: marshallList(t, cs)},
		{name: "search (empty)", path: "/api/programs/search", wantData: marshallList(t, cs, maths, physics)},
		{name: "by university", path: "/api/programs/university/" + utm.ID, wantData: marshallList(t, maths, physics)},
		{name: "by unknown university", path: "/api/programs/university/lol", wantData: marshallList(t)},
		{name: "retrieve", path: "/api/programs/" + maths.ID, wantData: marshallObj(t, maths)},
		{
			name: "not found", path: "/api/programs/lol",
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: program.ErrNotFound.Error()}),
		},
	}
	runTests(t, tests)
}

func Test_programApi_admin(t *testing.T) {
	setup(t)

	admin := testutil.FakeUser(t, usrRepo, user.RoleAdmin)
	student := testutil.FakeUser(t, usrRepo)
	adminToken := getToken(t, admin)
	utm := testutil.CreateUniversity(t, uniRepo, "جامعة تونس المنار", "Université de Tunis El Manar", score.North)
	maths := testutil.CreateProgram(t, progRepo, utm.ID, "الرياضيات", score.Mathematics, 140)

	tooHigh := 300.0
	newProg := func(uniID, field, code string, lastScore *float64) []byte {
		return marshallObj(t, program.NewProgram{
			UniversityID: uniID,
			Name:         "علوم الإعلامية",
			Field:        field,
			Degree:       "الإجازة في علوم الإعلامية",
			Code:         code,
			LastScore:    lastScore,
		})
	}

	tests := []httpTest{
		{
			name: "admin required", method: http.MethodPost, path: "/api/admin/programs", token: getToken(t, student),
			body: newProg(utm.ID, "Computer Science", "60101", nil), wantCode: http.StatusForbidden,
		},
		{
			name: "auth required", method: http.MethodPost, path: "/api/admin/programs",
			body: newProg(utm.ID, "Computer Science", "60101", nil), wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, errMissingToken),
		},
		{
			name: "required fields", method: http.MethodPost, path: "/api/admin/programs", token: adminToken,
			body:     marshallObj(t, program.NewProgram{}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{
				"university_id": "this field is required",
				"name":          "this field is required",
				"field":         "this field is required",
				"degree":        "this field is required",
			}),
		},
		{
			name: "unknown field", method: http.MethodPost, path: "/api/admin/programs", token: adminToken,
			body:     newProg(utm.ID, "lol", "60101", nil),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"field": "unknown bac stream"}),
		},
		{
			name: "score out of range", method: http.MethodPost, path: "/api/admin/programs", token: adminToken,
			body:     newProg(utm.ID, "Computer Science", "60101", &tooHigh),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"last_score": "last_score must be 250 or less"}),
		},
		{
			name: "unknown university", method: http.MethodPost, path: "/api/admin/programs", token: adminToken,
			body:     newProg("lol", "Computer Science", "60101", nil),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"university_id": "university not found"}),
		},
		{
			name: "code taken", method: http.MethodPost, path: "/api/admin/programs", token: adminToken,
			body:     newProg(utm.ID, "Computer Science", maths.Code, nil),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"code": program.ErrCodeExists.Error()}),
		},
	}
	runTests(t, tests)

	var created program.Program
	t.Run("create", func(t *testing.T) {
		lastScore := 133.5
		rec := serve(httpTest{
			method: http.MethodPost, path: "/api/admin/programs", token: adminToken,
			body: newProg(utm.ID, " Computer Science ", "60101", &lastScore),
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		unmarshall(t, rec, &created)
		assert.Equal(t, score.ComputerScience, created.Field)
		assert.Equal(t, "60101", created.Code)
		assert.Equal(t, 133.5, created.LastScore.Float64)
		assert.False(t, created.Duration.Valid)
	})

	t.Run("update", func(t *testing.T) {
		lastScore := 135.25
		rec := serve(httpTest{
			method: http.MethodPut, path: "/api/admin/programs/" + created.ID, token: adminToken,
			body: marshallObj(t, program.UpdateProgram{Duration: "3 سنوات", LastScore: &lastScore}),
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var got program.Program
		unmarshall(t, rec, &got)
		assert.Equal(t, created.Name, got.Name)
		assert.Equal(t, created.Code, got.Code)
		assert.Equal(t, "3 سنوات", got.Duration.String)
		assert.Equal(t, 135.25, got.LastScore.Float64)
	})

	updateTests := []httpTest{
		{
			name: "update with unknown university", method: http.MethodPut, path: "/api/admin/programs/" + created.ID, token: adminToken,
			body:     marshallObj(t, program.UpdateProgram{UniversityID: "lol"}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"university_id": "university not found"}),
		},
		{
			name: "update with a taken code", method: http.MethodPut, path: "/api/admin/programs/" + created.ID, token: adminToken,
			body:     marshallObj(t, program.UpdateProgram{Code: maths.Code}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"code": program.ErrCodeExists.Error()}),
		},
		{
			name: "update unknown", method: http.MethodPut, path: "/api/admin/programs/lol", token: adminToken,
			body: marshallObj(t, program.UpdateProgram{Name: "lol"}), wantCode: http.StatusNotFound,
		},
		{
			name: "delete", method: http.MethodDelete, path: "/api/admin/programs/" + created.ID, token: adminToken,
			wantCode: http.StatusNoContent,
		},
		{name: "deleted", path: "/api/programs/" + created.ID, wantCode: http.StatusNotFound},
		{
			name: "delete many", method: http.MethodDelete, path: "/api/admin/programs?id=" + maths.ID, token: adminToken,
			wantCode: http.StatusNoContent,
		},
		{name: "all deleted", path: "/api/admin/programs", token: adminToken, wantData: marshallList(t)},
	}
	runTests(t, updateTests)
}
