package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namescreen/internal/screening/models"
	"namescreen/pkg/platform/httputil"
	"namescreen/pkg/platform/middleware/requestid"
)

type stubService struct {
	got     models.ScreeningRequest
	outcome *models.Outcome
	err     error
}

func (s *stubService) Screen(_ context.Context, req models.ScreeningRequest) (*models.Outcome, error) {
	s.got = req
	return s.outcome, s.err
}

func newRouter(svc Service) http.Handler {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	New(svc, logger).Register(r)
	return r
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/screen", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestid.Header, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleScreen_Success(t *testing.T) {
	decided := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &stubService{outcome: &models.Outcome{
		RequestID:      "req-42",
		Query:          []string{"jane", "danild"},
		Language:       "en",
		Scorer:         "lexical",
		ScoreRange:     models.ScoreRange{Min: 0, Max: 100, Integer: true},
		Threshold:      0.8,
		CandidateCount: 3,
		Skipped:        []models.SkippedCandidate{{CandidateID: "SDN-7", Error: "boom"}},
		Matches: []models.MatchResult{
			{CandidateID: "SDN-1", CandidateName: "jane danald", Score: 91, NormalizedScore: 0.91, Reason: "SDGT"},
		},
		State:     models.StateDecided,
		DecidedAt: decided,
	}}

	rec := post(t, newRouter(svc), `{"name":"Jane Danild","type":"individual","threshold":80,"threshold_scale":"native"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(requestid.Header))

	assert.Equal(t, "req-42", svc.got.RequestID)
	assert.Equal(t, models.RecordTypeIndividual, svc.got.Type)
	assert.Equal(t, models.Threshold{Value: 80, Scale: models.ScaleNative}, svc.got.Threshold)

	var resp ScreenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Matched)
	assert.Equal(t, 3, resp.Candidates)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, []string{"SDN-7"}, resp.SkippedIDs)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, MatchResponse{CandidateID: "SDN-1", CandidateName: "jane danald", Score: 91, NormalizedScore: 0.91, Reason: "SDGT"}, resp.Matches[0])
	assert.True(t, decided.Equal(resp.DecidedAt))
}

func TestHandleScreen_EmptyMatchesEncodeAsArray(t *testing.T) {
	svc := &stubService{outcome: &models.Outcome{RequestID: "req-42", State: models.StateDecided}}
	rec := post(t, newRouter(svc), `{"name":"John Doe","type":"individual","threshold":0.8}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matches":[]`)
}

func TestHandleScreen_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "malformed json", body: `{"name":`, wantStatus: http.StatusBadRequest, wantCode: "bad_request"},
		{name: "missing threshold", body: `{"name":"John Doe","type":"individual"}`, wantStatus: http.StatusBadRequest, wantCode: "validation_error"},
		{
			name:       "invalid name",
			body:       `{"name":"---","type":"individual","threshold":0.8}`,
			err:        models.InvalidName("name is empty after normalization"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_error",
		},
		{
			name:       "unsupported language",
			body:       `{"name":"محمد علي","type":"individual","threshold":0.8,"mode":"strict"}`,
			err:        models.UnsupportedLanguage("ar", errors.New("no translator configured")),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "unsupported",
		},
		{
			name:       "registry down",
			body:       `{"name":"John Doe","type":"individual","threshold":0.8}`,
			err:        models.Retrieval(errors.New("connection refused")),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "unavailable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, newRouter(&stubService{err: tt.err}), tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp httputil.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Error)
		})
	}
}

func TestHandleScreen_InternalErrorHidesDetail(t *testing.T) {
	rec := post(t, newRouter(&stubService{err: errors.New("dsn=postgres://secret")}), `{"name":"John Doe","type":"entity","threshold":0.5}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}
