package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namescreen/internal/ingest"
	"namescreen/internal/registry"
	dErrors "namescreen/pkg/domain-errors"
	"namescreen/pkg/platform/middleware/admin"
	"namescreen/pkg/requestcontext"
	"namescreen/pkg/testutil"
)

var secret = []byte("test-secret")

type stubCounter struct {
	stats registry.Stats
	err   error
}

func (s stubCounter) Count(context.Context) (registry.Stats, error) { return s.stats, s.err }

type stubRefresher struct {
	operator string
	report   *ingest.Report
	err      error
}

func (s *stubRefresher) Refresh(ctx context.Context) (*ingest.Report, error) {
	s.operator = requestcontext.Operator(ctx)
	return s.report, s.err
}

func newHandler(counter registry.Counter, refresher Refresher) *Handler {
	return New(counter, refresher, secret, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func newRouter(counter registry.Counter, refresher Refresher) http.Handler {
	r := chi.NewRouter()
	newHandler(counter, refresher).Register(r)
	return r
}

func serve(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleStats(t *testing.T) {
	rec := serve(newRouter(stubCounter{stats: registry.Stats{Entities: 2, Individuals: 3, Total: 5}}, nil), http.MethodGet, "/v1/registry/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := testutil.UnmarshalResponse[registry.Stats](t, rec)
	assert.Equal(t, registry.Stats{Entities: 2, Individuals: 3, Total: 5}, *got)
}

func TestHandleStats_Error(t *testing.T) {
	rec := serve(newRouter(stubCounter{err: errors.New("db down")}, nil), http.MethodGet, "/v1/registry/stats", "")
	testutil.AssertStatusAndError(t, rec, http.StatusServiceUnavailable, string(dErrors.CodeUnavailable))
}

func TestHandleRefresh(t *testing.T) {
	token, err := admin.IssueToken(secret, "alice", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		refresher  *stubRefresher
		token      string
		wantStatus int
	}{
		{
			name:       "refreshes with admin token",
			refresher:  &stubRefresher{report: &ingest.Report{Built: 7}},
			token:      token,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing token",
			refresher:  &stubRefresher{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bad token",
			refresher:  &stubRefresher{},
			token:      "not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "refresh already running",
			refresher:  &stubRefresher{err: dErrors.New(dErrors.CodeConflict, "busy")},
			token:      token,
			wantStatus: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newRouter(stubCounter{}, tt.refresher), http.MethodPost, "/v1/admin/registry/refresh", tt.token)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "alice", tt.refresher.operator)
				got := testutil.UnmarshalResponse[ingest.Report](t, rec)
				assert.Equal(t, 7, got.Built)
			}
		})
	}
}

func TestHandleRefresh_NoSources(t *testing.T) {
	token, err := admin.IssueToken(secret, "alice", time.Minute)
	require.NoError(t, err)

	rec := serve(newRouter(stubCounter{}, nil), http.MethodPost, "/v1/admin/registry/refresh", token)
	testutil.AssertStatusAndError(t, rec, http.StatusNotFound, string(dErrors.CodeNotFound))
}

func TestHandleRefresh_Direct(t *testing.T) {
	testutil.Given(t, "a request that already passed the admin guard", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/admin/registry/refresh", nil)
		req = testutil.WithRequestID(req, "req-42")
		req = testutil.WithOperator(req, "bob")

		testutil.When(t, "the snapshot is empty", func(t *testing.T) {
			refresher := &stubRefresher{err: dErrors.New(dErrors.CodeInvariantViolation, "refusing to load an empty registry")}
			rec := testutil.DoRequest(http.HandlerFunc(newHandler(stubCounter{}, refresher).HandleRefresh), req)

			testutil.Then(t, "the refresh is rejected as unprocessable", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rec, http.StatusUnprocessableEntity, string(dErrors.CodeInvariantViolation))
				assert.Equal(t, "bob", refresher.operator)
			})
		})
	})
}
