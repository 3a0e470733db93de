package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-desk/api/router"
	"review-desk/dto"
	"review-desk/enricher"
	"review-desk/gateway"
	"review-desk/localstore"
	"review-desk/services"
)

type fixedGenerator struct {
	fail bool
}

func (g *fixedGenerator) Generate(ctx context.Context, prompt string, opts gateway.GenerateOptions) gateway.Result {
	if g.fail {
		return gateway.Result{OK: false, Text: gateway.ErrorPrefix + "unavailable"}
	}
	return gateway.Result{OK: true, Text: "generated"}
}

func newTestRouter(t *testing.T, gen enricher.Generator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := localstore.New(filepath.Join(t.TempDir(), "submissions.csv"))
	backup := localstore.New(filepath.Join(t.TempDir(), "backup.csv"))
	svc := services.NewSubmissionService(store, backup, enricher.New(gen), nil, "test-model")
	return router.New(svc)
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitEndpoint(t *testing.T) {
	r := newTestRouter(t, &fixedGenerator{})

	w := postJSON(t, r, "/api/v1/submissions", dto.SubmitRequest{Rating: 4, Review: "great evening"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.SubmitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Submission.ID)
	assert.Equal(t, 4, resp.Submission.Rating)
	assert.Equal(t, "generated", resp.Submission.AIResponse)
	assert.False(t, resp.Degraded)
}

func TestSubmitEndpointRejectsEmptyReview(t *testing.T) {
	r := newTestRouter(t, &fixedGenerator{})

	w := postJSON(t, r, "/api/v1/submissions", dto.SubmitRequest{Rating: 3, Review: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitEndpointRejectsBadRating(t *testing.T) {
	r := newTestRouter(t, &fixedGenerator{})

	w := postJSON(t, r, "/api/v1/submissions", map[string]any{"rating": 9, "review": "fine"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAndGetEndpoints(t *testing.T) {
	r := newTestRouter(t, &fixedGenerator{})

	created := postJSON(t, r, "/api/v1/submissions", dto.SubmitRequest{Rating: 5, Review: "superb"})
	require.Equal(t, http.StatusCreated, created.Code)
	var resp dto.SubmitResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/submissions", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list []dto.SubmissionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, resp.Submission.ID, list[0].ID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/submissions/"+resp.Submission.ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/submissions/unknown-id", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRerunEndpointUnknownID(t *testing.T) {
	r := newTestRouter(t, &fixedGenerator{})

	w := postJSON(t, r, "/api/v1/submissions/unknown-id/rerun", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	r := newTestRouter(t, &fixedGenerator{})

	for _, rating := range []int{5, 3} {
		w := postJSON(t, r, "/api/v1/submissions", dto.SubmitRequest{Rating: rating, Review: "some review"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/submissions/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var stats services.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Total)
	require.NotNil(t, stats.AverageRating)
	assert.InDelta(t, 4.0, *stats.AverageRating, 1e-9)
}
