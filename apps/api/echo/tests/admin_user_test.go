package tests

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tawjih/core/user"
	"github.com/trezcool/tawjih/tests"
)

func Test_userApi_query(t *testing.T) {
	setup(t)

	path := func(search, ordering string, isActive *bool, roles ...string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		if isActive != nil {
			v.Add("is_active", strconv.FormatBool(*isActive))
		}
		for _, r := range roles {
			v.Add("role", r)
		}
		return "/api/admin/users?" + v.Encode()
	}
	bPtr := func(b bool) *bool { return &b }

	now := time.Now()
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.tn", "", nil, true, now.Add(1*time.Hour))
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.tn", "", []string{user.RoleAdmin}, true, now.Add(2*time.Hour))
	owner := testutil.CreateUser(t, usrRepo, "Owner", "owner@test.tn", "", []string{user.RoleAdminOwner}, true, now.Add(3*time.Hour))
	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog@test.tn", "", nil, false, now.Add(4*time.Hour))

	adminToken := getToken(t, admin)

	tests := []httpTest{
		{name: "auth required", path: "/api/admin/users", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "admin required", path: "/api/admin/users", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "get all", path: "/api/admin/users", token: adminToken, wantData: marshallList(t, naughty, owner, admin, student)},
		{name: "search (unknown)", path: path("lol", "", nil), token: adminToken, wantData: marshallList(t)},
		{name: "search=ADM", path: path("ADM", "", nil), token: adminToken, wantData: marshallList(t, admin)},
		{name: "role=admin:", path: path("", "", nil, user.RoleAdmin), token: adminToken, wantData: marshallList(t, admin)},
		{
			name: "role=admin:,admin:owner", path: path("", "", nil, user.RoleAdmin, user.RoleAdminOwner), token: adminToken,
			wantData: marshallList(t, owner, admin),
		},
		{name: "is_active=false", path: path("", "", bPtr(false)), token: adminToken, wantData: marshallList(t, naughty)},
		{name: "order by created_at", path: path("", "created_at", nil), token: adminToken, wantData: marshallList(t, student, admin, owner, naughty)},
		{name: "order by name", path: path("", "name", nil), token: adminToken, wantData: marshallList(t, admin, student, naughty, owner)},
		{name: "roles", path: "/api/admin/users/roles", token: adminToken, wantData: marshallObj(t, user.Roles)},
	}
	runTests(t, tests)
}

func Test_userApi_create(t *testing.T) {
	setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.tn", "", []string{user.RoleAdmin}, true)
	adminToken := getToken(t, admin)

	newUser := func(email string, roles ...string) []byte {
		return marshallObj(t, user.NewUser{
			Name: "Salma Gharbi", Email: email, Password: testutil.Password, PasswordConfirm: testutil.Password, Roles: roles,
		})
	}

	tests := []httpTest{
		{
			name: "email taken", method: http.MethodPost, path: "/api/admin/users", token: adminToken, body: newUser(admin.Email),
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, map[string]string{"email": user.ErrEmailExists.Error()}),
		},
		{
			name: "unknown role", method: http.MethodPost, path: "/api/admin/users", token: adminToken, body: newUser("salma@test.tn", "lol"),
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, map[string]string{"roles": "invalid roles"}),
		},
		{
			name: "role above own", method: http.MethodPost, path: "/api/admin/users", token: adminToken,
			body:     newUser("salma@test.tn", user.RoleAdminOwner),
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, map[string]string{"roles": "not enough rights to set these roles"}),
		},
	}
	runTests(t, tests)

	t.Run("success", func(t *testing.T) {
		rec := serve(httpTest{method: http.MethodPost, path: "/api/admin/users", token: adminToken, body: newUser("salma@test.tn", user.RoleAdmin)})
		require.Equal(t, http.StatusCreated, rec.Code)

		var got user.User
		unmarshall(t, rec, &got)
		assert.Equal(t, "salma@test.tn", got.Email)
		assert.Equal(t, []string{user.RoleAdmin}, got.Roles)

		stored, err := usrSvc.GetByID(context.Background(), got.ID)
		require.NoError(t, err)
		assert.NoError(t, stored.CheckPassword(testutil.Password))
	})
}

func Test_userApi_detail(t *testing.T) {
	setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.tn", "", []string{user.RoleAdmin}, true)
	owner := testutil.CreateUser(t, usrRepo, "Owner", "owner@test.tn", "", []string{user.RoleAdminOwner}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.tn", "", nil, true)
	adminToken := getToken(t, admin)
	bFalse := false

	tests := []httpTest{
		{name: "not found", path: "/api/admin/users/lol", token: adminToken, wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"})},
		{name: "retrieve", path: "/api/admin/users/" + student.ID, token: adminToken, wantData: marshallObj(t, student)},
		{
			name: "cannot promote above own role", method: http.MethodPut, path: "/api/admin/users/" + student.ID, token: adminToken,
			body:     marshallObj(t, user.UpdateUser{Roles: []string{user.RoleAdminOwner}}),
			wantCode: http.StatusBadRequest,
		},
		{name: "cannot delete self", method: http.MethodDelete, path: "/api/admin/users/" + admin.ID, token: adminToken, wantCode: http.StatusForbidden},
		{name: "cannot delete a higher role", method: http.MethodDelete, path: "/api/admin/users/" + owner.ID, token: adminToken, wantCode: http.StatusForbidden},
		{
			name: "cannot delete self among others", method: http.MethodDelete,
			path: "/api/admin/users?id=" + student.ID + "&id=" + admin.ID, token: adminToken, wantCode: http.StatusForbidden,
		},
	}
	runTests(t, tests)

	t.Run("deactivate", func(t *testing.T) {
		rec := serve(httpTest{
			method: http.MethodPut, path: "/api/admin/users/" + student.ID, token: adminToken,
			body: marshallObj(t, user.UpdateUser{IsActive: &bFalse}),
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var got user.User
		unmarshall(t, rec, &got)
		assert.False(t, got.IsActive)
		assert.Equal(t, student.Email, got.Email)
	})

	t.Run("delete", func(t *testing.T) {
		rec := serve(httpTest{method: http.MethodDelete, path: "/api/admin/users/" + student.ID, token: adminToken})
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err := usrSvc.GetByID(context.Background(), student.ID)
		assert.Equal(t, user.ErrNotFound, err)
	})
}
