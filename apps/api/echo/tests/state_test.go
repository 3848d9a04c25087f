package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tawjih/apps/api/echo"
	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/appstate"
	"github.com/trezcool/tawjih/core/score"
	"github.com/trezcool/tawjih/tests"
)

func getState(t *testing.T, token string) appstate.State {
	t.Helper()
	rec := serve(httpTest{path: "/api/state", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	var s appstate.State
	unmarshall(t, rec, &s)
	return s
}

func Test_stateApi(t *testing.T) {
	setup(t)

	token := getToken(t, testutil.FakeUser(t, usrRepo))
	otherToken := getToken(t, testutil.FakeUser(t, usrRepo))

	mathScores := score.Scores{score.MG: 15, score.M: 14, score.SP: 13, score.SVT: 12, score.F: 11, score.Ang: 10}
	incomplete := score.Scores{score.MG: 15, score.SP: 13, score.SVT: 12, score.F: 11, score.Ang: 10}
	missingM := &score.MissingSubjectError{Stream: score.Mathematics, Subject: score.M}

	tests := []httpTest{
		{name: "auth required", path: "/api/state", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "unknown language", method: http.MethodPut, path: "/api/state/language", token: token,
			body:     marshallObj(t, echoapi.LanguageRequest{Language: "de"}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"language": "language must be one of ar, fr"}),
		},
		{
			name: "unknown bac stream", method: http.MethodPut, path: "/api/state/profile", token: token,
			body:     marshallObj(t, echoapi.ProfileStateRequest{BacStream: "lol"}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"bac_stream": "unknown bac stream"}),
		},
		{
			name: "bad grades", method: http.MethodPost, path: "/api/state/scores", token: token,
			body:     marshallObj(t, echoapi.CalculateScoresRequest{Stream: "Mathematics", Scores: score.Scores{score.MG: 21}}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"scores": "grades must be known subjects with values between 0 and 20"}),
		},
		{
			name: "incomplete grades", method: http.MethodPost, path: "/api/state/scores", token: token,
			body:     marshallObj(t, echoapi.CalculateScoresRequest{Stream: "Mathematics", Scores: incomplete}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{Error: missingM.Message()}),
		},
		{
			name: "favorite without a program", method: http.MethodPost, path: "/api/state/favorites", token: token,
			body:     marshallObj(t, appstate.Favorite{Notes: "lol"}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{Error: appstate.ErrFavoriteProgramID.Error()}),
		},
		{
			name: "unknown favorite", method: http.MethodDelete, path: "/api/state/favorites/lol", token: token,
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: appstate.ErrFavoriteNotFound.Error()}),
		},
	}
	runTests(t, tests)

	t.Run("fresh state", func(t *testing.T) {
		s := getState(t, token)
		assert.Equal(t, core.LangAr, s.Language)
		assert.Equal(t, score.Arts, s.Profile.BacStream)
		assert.Empty(t, s.Profile.Scores)
		assert.Empty(t, s.Favorites)
	})

	t.Run("language", func(t *testing.T) {
		rec := serve(httpTest{
			method: http.MethodPut, path: "/api/state/language", token: token,
			body: marshallObj(t, echoapi.LanguageRequest{Language: " FR "}),
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, core.LangFr, getState(t, token).Language)
	})

	t.Run("profile", func(t *testing.T) {
		rec := serve(httpTest{
			method: http.MethodPut, path: "/api/state/profile", token: token,
			body: marshallObj(t, echoapi.ProfileStateRequest{Name: "Amira", Email: "Amira@Tawjih.TN", BacStream: "Mathematics", BacYear: 2025}),
		})
		require.Equal(t, http.StatusOK, rec.Code)

		s := getState(t, token)
		assert.Equal(t, "Amira", s.Profile.Name)
		assert.Equal(t, "amira@tawjih.tn", s.Profile.Email)
		assert.Equal(t, score.Mathematics, s.Profile.BacStream)
		assert.Equal(t, 2025, s.Profile.BacYear)
		assert.Equal(t, core.LangFr, s.Language)
	})

	t.Run("scores", func(t *testing.T) {
		rec := serve(httpTest{
			method: http.MethodPost, path: "/api/state/scores", token: token,
			body: marshallObj(t, echoapi.CalculateScoresRequest{Stream: "Mathematics", Scores: mathScores, Governorate: "sfax"}),
		})
		require.Equal(t, http.StatusOK, rec.Code)

		s := getState(t, token)
		assert.Equal(t, 134.5, s.Profile.FG)
		assert.Equal(t, 134.5, s.Profile.T)
		assert.Equal(t, mathScores, s.Profile.Scores)
		assert.Equal(t, "Amira", s.Profile.Name)
	})

	t.Run("favorites", func(t *testing.T) {
		fav := appstate.Favorite{Program: catalogue[0], Notes: "الخيار الأول"}

		rec := serve(httpTest{method: http.MethodPost, path: "/api/state/favorites", token: token, body: marshallObj(t, fav)})
		require.Equal(t, http.StatusCreated, rec.Code)
		var s appstate.State
		unmarshall(t, rec, &s)
		require.Len(t, s.Favorites, 1)
		assert.Equal(t, catalogue[0].Code, s.Favorites[0].ID)
		assert.Equal(t, catalogue[0].Code, s.Favorites[0].ProgramID)
		assert.False(t, s.Favorites[0].AddedAt.IsZero())

		rec = serve(httpTest{method: http.MethodPost, path: "/api/state/favorites", token: token, body: marshallObj(t, fav)})
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{Error: appstate.ErrFavoriteExists.Error()}),
		}, rec)

		rec = serve(httpTest{method: http.MethodDelete, path: "/api/state/favorites/" + catalogue[0].Code, token: token})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, getState(t, token).Favorites)
	})

	t.Run("states are per user", func(t *testing.T) {
		s := getState(t, otherToken)
		assert.Equal(t, core.LangAr, s.Language)
		assert.Zero(t, s.Profile.FG)
	})
}
