package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tawjih/apps/api/echo"
	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/calendar"
	"github.com/trezcool/tawjih/core/user"
	"github.com/trezcool/tawjih/tests"
)

func pinCalendarClock(t *testing.T, now time.Time) {
	t.Helper()
	calendar.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { calendar.NowFunc = time.Now })
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Test_calendarApi_public(t *testing.T) {
	setup(t)
	pinCalendarClock(t, time.Date(2025, time.July, 10, 10, 0, 0, 0, time.UTC))

	lastYear := testutil.CreateEvent(t, eventRepo, "الاختبارات", date(2024, time.July, 15), calendar.TestPrograms)
	fg := testutil.CreateEvent(t, eventRepo, "نشر صيغ المجموع العام", date(2025, time.July, 5), calendar.FGPublishing)
	primary := testutil.CreateEvent(t, eventRepo, "التوجيه الأولي", date(2025, time.July, 10), calendar.PrimaryOrientation)
	final := testutil.CreateEvent(t, eventRepo, "التوجيه النهائي", date(2025, time.July, 12), calendar.FinalOrientation)
	reorientation := testutil.CreateEvent(t, eventRepo, "إعادة التوجيه", date(2025, time.August, 20), calendar.ReOrientation)

	categories := make([]echoapi.CategoryResponse, 0, len(calendar.Categories))
	for _, c := range calendar.Categories {
		categories = append(categories, echoapi.CategoryResponse{Value: c, Label: c.Label(core.LangAr), LabelFr: c.Label(core.LangFr)})
	}

	tests := []httpTest{
		{name: "all, by date", path: "/api/calendar", wantData: marshallList(t, lastYear, fg, primary, final, reorientation)},
		{name: "by date desc", path: "/api/calendar?ordering=-date", wantData: marshallList(t, reorientation, final, primary, fg, lastYear)},
		{name: "category", path: "/api/calendar?category=FINAL_ORIENTATION", wantData: marshallList(t, final)},
		{name: "unknown category", path: "/api/calendar?category=lol", wantData: marshallList(t)},
		{name: "month", path: "/api/calendar?month=7", wantData: marshallList(t, lastYear, fg, primary, final)},
		{name: "month and year", path: "/api/calendar?month=7&year=2025", wantData: marshallList(t, fg, primary, final)},
		{name: "month out of range", path: "/api/calendar?month=13", wantData: marshallList(t, lastYear, fg, primary, final, reorientation)},
		{name: "malformed month", path: "/api/calendar?month=lol", wantData: marshallList(t)},
		{name: "upcoming, from today", path: "/api/calendar/upcoming", wantData: marshallList(t, primary, final, reorientation)},
		{name: "upcoming, limited", path: "/api/calendar/upcoming?limit=2", wantData: marshallList(t, primary, final)},
		{name: "upcoming, bad limit", path: "/api/calendar/upcoming?limit=-1", wantData: marshallList(t, primary, final, reorientation)},
		{name: "current month", path: "/api/calendar/current", wantData: marshallList(t, fg, primary, final)},
		{name: "categories", path: "/api/calendar/categories", wantData: marshallObj(t, categories)},
	}
	runTests(t, tests)
}

func Test_calendarApi_admin(t *testing.T) {
	setup(t)
	pinCalendarClock(t, time.Date(2025, time.July, 10, 10, 0, 0, 0, time.UTC))

	admin := testutil.FakeUser(t, usrRepo, user.RoleAdmin)
	student := testutil.FakeUser(t, usrRepo)
	adminToken := getToken(t, admin)

	newEvent := func(d, cat string) []byte {
		return marshallObj(t, calendar.NewEvent{Title: "التوجيه النهائي", TitleFr: "Orientation finale", Date: d, Category: cat})
	}

	tests := []httpTest{
		{
			name: "admin required", method: http.MethodPost, path: "/api/admin/calendar", token: getToken(t, student),
			body: newEvent("2025-07-12", "final_orientation"), wantCode: http.StatusForbidden,
		},
		{
			name: "required fields", method: http.MethodPost, path: "/api/admin/calendar", token: adminToken,
			body:     marshallObj(t, calendar.NewEvent{}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{
				"title":    "this field is required",
				"title_fr": "this field is required",
				"date":     "this field is required",
				"category": "this field is required",
			}),
		},
		{
			name: "bad date and category", method: http.MethodPost, path: "/api/admin/calendar", token: adminToken,
			body:     newEvent("12/07/2025", "lol"),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{
				"date":     "date must be formatted as YYYY-MM-DD",
				"category": "unknown event category",
			}),
		},
		{name: "retrieve unknown", path: "/api/admin/calendar/lol", token: adminToken, wantCode: http.StatusNotFound},
		{
			name: "update unknown", method: http.MethodPut, path: "/api/admin/calendar/lol", token: adminToken,
			body: marshallObj(t, calendar.UpdateEvent{Title: "lol"}), wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: calendar.ErrNotFound.Error()}),
		},
	}
	runTests(t, tests)

	var created calendar.Event
	t.Run("create", func(t *testing.T) {
		rec := serve(httpTest{
			method: http.MethodPost, path: "/api/admin/calendar", token: adminToken,
			body: newEvent(" 2025-07-12 ", "Final_Orientation"),
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		unmarshall(t, rec, &created)
		assert.Equal(t, calendar.FinalOrientation, created.Category)
		assert.True(t, created.Date.Equal(date(2025, time.July, 12)))
	})

	t.Run("update", func(t *testing.T) {
		rec := serve(httpTest{
			method: http.MethodPut, path: "/api/admin/calendar/" + created.ID, token: adminToken,
			body: marshallObj(t, calendar.UpdateEvent{Date: "2025-07-14", Description: "عبر موقع التوجيه الجامعي"}),
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var got calendar.Event
		unmarshall(t, rec, &got)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, created.Category, got.Category)
		assert.True(t, got.Date.Equal(date(2025, time.July, 14)))
		assert.Equal(t, "عبر موقع التوجيه الجامعي", got.Description)
	})

	t.Run("update with a bad date", func(t *testing.T) {
		rec := serve(httpTest{
			method: http.MethodPut, path: "/api/admin/calendar/" + created.ID, token: adminToken,
			body: marshallObj(t, calendar.UpdateEvent{Date: "lol"}),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := serve(httpTest{method: http.MethodDelete, path: "/api/admin/calendar/" + created.ID, token: adminToken})
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = serve(httpTest{path: "/api/admin/calendar/" + created.ID, token: adminToken})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_calendarApi_reminders(t *testing.T) {
	setup(t)
	pinCalendarClock(t, time.Date(2025, time.July, 10, 10, 0, 0, 0, time.UTC))

	admin := testutil.FakeUser(t, usrRepo, user.RoleAdmin)
	testutil.FakeUser(t, usrRepo)
	testutil.FakeUser(t, usrRepo)
	testutil.CreateUser(t, usrRepo, "Inactive", "inactive@tawjih.tn", testutil.Password, nil, false)
	adminToken := getToken(t, admin)

	testutil.CreateEvent(t, eventRepo, "نشر صيغ المجموع العام", date(2025, time.July, 5), calendar.FGPublishing)
	testutil.CreateEvent(t, eventRepo, "التوجيه الأولي", date(2025, time.July, 10), calendar.PrimaryOrientation)
	testutil.CreateEvent(t, eventRepo, "التوجيه النهائي", date(2025, time.July, 12), calendar.FinalOrientation)
	testutil.CreateEvent(t, eventRepo, "إعادة التوجيه", date(2025, time.August, 20), calendar.ReOrientation)

	withinErr := marshallObj(t, map[string]string{"within": "within must be a positive duration, e.g. 72h"})

	tests := []httpTest{
		{
			name: "admin required", method: http.MethodPost, path: "/api/admin/calendar/reminders",
			token: getToken(t, testutil.FakeUser(t, usrRepo)), wantCode: http.StatusForbidden,
		},
		{
			name: "malformed window", method: http.MethodPost, path: "/api/admin/calendar/reminders?within=lol", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: withinErr,
		},
		{
			name: "negative window", method: http.MethodPost, path: "/api/admin/calendar/reminders?within=-1h", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: withinErr,
		},
	}
	runTests(t, tests)

	t.Run("default window", func(t *testing.T) {
		mailSvc.Reset()
		rec := serve(httpTest{method: http.MethodPost, path: "/api/admin/calendar/reminders", token: adminToken})
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, echoapi.RemindersResponse{Events: 2})}, rec)

		sent := mailSvc.Sent()
		require.Len(t, sent, 4) // every active user, admins included
		for _, msg := range sent {
			require.Len(t, msg.To, 1)
			assert.NotEqual(t, "inactive@tawjih.tn", msg.To[0].Address)
			assert.Equal(t, "مواعيد التوجيه القادمة (2)", msg.Subject)
			assert.Contains(t, msg.TextContent, "التوجيه النهائي")
			assert.NotContains(t, msg.TextContent, "إعادة التوجيه")
		}
	})

	t.Run("short window", func(t *testing.T) {
		mailSvc.Reset()
		rec := serve(httpTest{method: http.MethodPost, path: "/api/admin/calendar/reminders?within=1h", token: adminToken})
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, echoapi.RemindersResponse{Events: 1})}, rec)
		assert.Len(t, mailSvc.Sent(), 4)
	})

	t.Run("nothing due", func(t *testing.T) {
		pinCalendarClock(t, time.Date(2025, time.September, 1, 10, 0, 0, 0, time.UTC))
		mailSvc.Reset()
		rec := serve(httpTest{method: http.MethodPost, path: "/api/admin/calendar/reminders", token: adminToken})
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, echoapi.RemindersResponse{Events: 0})}, rec)
		assert.Empty(t, mailSvc.Sent())
	})
}
