package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/tawjih/apps/api/echo"
	"github.com/trezcool/tawjih/core/matching"
	"github.com/trezcool/tawjih/core/score"
)

func recommendationsPath(endpoint, userScore, stream, limit string) string {
	v := make(url.Values)
	if userScore != "" {
		v.Set("score", userScore)
	}
	if stream != "" {
		v.Set("stream", stream)
	}
	if limit != "" {
		v.Set("limit", limit)
	}
	return "/api/recommendations" + endpoint + "?" + v.Encode()
}

func Test_recommendationApi_recommend(t *testing.T) {
	setup(t)

	reach := matching.Recommendation{
		Program: catalogue[0], MatchScore: 90, Category: matching.Reach,
		Probability: matching.Reach.Probability(), Gap: -5,
	}
	good := matching.Recommendation{
		Program: catalogue[1], MatchScore: 81, Category: matching.Good,
		Probability: matching.Good.Probability(), Gap: 9.5,
	}

	tests := []httpTest{
		{
			name: "score required", path: recommendationsPath("", "", string(score.Mathematics), ""),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"score": "score must be a number"}),
		},
		{
			name: "score must be finite", path: recommendationsPath("", "NaN", string(score.Mathematics), ""),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown stream", path: recommendationsPath("", "135", "lol", ""),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"stream": "unknown bac stream"}),
		},
		{
			name: "ranked by match score", path: recommendationsPath("", "135", string(score.Mathematics), ""),
			wantData: marshallObj(t, echoapi.RecommendationsResponse{
				Score:           135,
				Stream:          score.Mathematics,
				Recommendations: []matching.Recommendation{reach, good},
				Stats:           matching.Stats{Good: 1, Reach: 1, Total: 2},
			}),
		},
		{
			name: "limit", path: recommendationsPath("", "135", "Mathematics", "1"),
			wantData: marshallObj(t, echoapi.RecommendationsResponse{
				Score:           135,
				Stream:          score.Mathematics,
				Recommendations: []matching.Recommendation{reach},
				Stats:           matching.Stats{Reach: 1, Total: 1},
			}),
		},
		{
			name: "no program for the stream", path: recommendationsPath("", "135", string(score.Sports), ""),
			wantData: marshallObj(t, echoapi.RecommendationsResponse{
				Score:           135,
				Stream:          score.Sports,
				Recommendations: []matching.Recommendation{},
			}),
		},
	}
	runTests(t, tests)
}

func Test_recommendationApi_byCategory(t *testing.T) {
	setup(t)

	rec := serve(httpTest{path: recommendationsPath("/categories", "135", string(score.Mathematics), "")})
	assert.Equal(t, http.StatusOK, rec.Code)

	var groups map[matching.Category][]matching.Recommendation
	unmarshall(t, rec, &groups)
	assert.Len(t, groups, len(matching.Categories))
	assert.Empty(t, groups[matching.Excellent])
	assert.Empty(t, groups[matching.Safety])
	if assert.Len(t, groups[matching.Reach], 1) {
		assert.Equal(t, "10101", groups[matching.Reach][0].Program.Code)
	}
	if assert.Len(t, groups[matching.Good], 1) {
		assert.Equal(t, "10102", groups[matching.Good][0].Program.Code)
	}
}

func Test_recommendationApi_stats(t *testing.T) {
	setup(t)
	runTests(t, []httpTest{
		{
			name: "stats", path: recommendationsPath("/stats", "145", string(score.Mathematics), ""),
			wantData: marshallObj(t, matching.Stats{Excellent: 1, Good: 1, Total: 2}),
		},
	})
}

func Test_recommendationApi_catalogue(t *testing.T) {
	setup(t)

	utm := directoryUnis[0]
	tests := []httpTest{
		{name: "whole catalogue", path: "/api/catalogue", wantData: marshallObj(t, catalogue)},
		{name: "whole catalogue, limited", path: "/api/catalogue?limit=2", wantData: marshallObj(t, catalogue[:2])},
		{
			name: "by field", path: "/api/catalogue?field=" + url.QueryEscape("Computer Science"),
			wantData: marshallObj(t, []matching.FieldProgram{{
				Program: catalogue[3], Website: utm.Website, UniversityAr: utm.Name, UniversityFr: utm.NameFr,
			}}),
		},
		{name: "unknown field", path: "/api/catalogue?field=lol", wantData: marshallList(t)},
	}
	runTests(t, tests)
}

func Test_recommendationApi_catalogueUnavailable(t *testing.T) {
	setup(t, func(deps *echoapi.Deps) { deps.Engine = matching.NewEngine(nil, nil, nil) })

	groups := make(map[matching.Category][]matching.Recommendation)
	for _, c := range matching.Categories {
		groups[c] = []matching.Recommendation{}
	}
	runTests(t, []httpTest{
		{
			name: "recommendations", path: recommendationsPath("", "135", string(score.Mathematics), ""),
			wantData: marshallObj(t, echoapi.RecommendationsResponse{
				Score:           135,
				Stream:          score.Mathematics,
				Recommendations: []matching.Recommendation{},
			}),
		},
		{
			name: "categories", path: recommendationsPath("/categories", "135", string(score.Mathematics), ""),
			wantData: marshallObj(t, groups),
		},
		{
			name: "stats", path: recommendationsPath("/stats", "135", string(score.Mathematics), ""),
			wantData: marshallObj(t, matching.Stats{}),
		},
		{
			name: "bad score still rejected", path: recommendationsPath("", "lol", string(score.Mathematics), ""),
			wantCode: http.StatusBadRequest,
		},
		{name: "catalogue", path: "/api/catalogue", wantCode: http.StatusServiceUnavailable},
	})
}
