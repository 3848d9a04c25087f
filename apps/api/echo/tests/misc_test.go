package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_home(t *testing.T) {
	setup(t)

	rec := serve(httpTest{path: "/"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Tawjih API!", rec.Body.String())
}

func Test_metrics(t *testing.T) {
	setup(t)

	serve(httpTest{path: "/api/score/formulas"})
	serve(httpTest{path: "/api/universities/lol"})
	serve(httpTest{method: http.MethodPost, path: "/api/ai/chat", body: marshallObj(t, map[string]string{"message": "خريطة"})})

	rec := serve(httpTest{path: "/metrics"})
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "tawjih_http_requests_total")
	assert.Contains(t, body, `code="404"`)
	assert.Contains(t, body, `tawjih_assistant_answers_total{endpoint="chat",source="rules"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func Test_unknownRoute(t *testing.T) {
	setup(t)

	rec := serve(httpTest{path: "/api/lol"})
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "Not Found"})}, rec)
}
