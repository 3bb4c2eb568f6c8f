package requestid

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"namescreen/pkg/requestcontext"
	"namescreen/pkg/testutil"
)

func TestMiddleware(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	testutil.Given(t, "an inbound request id", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodGet, "/", nil)
		req.Header.Set(Header, "abc-123")
		rr := testutil.DoRequest(h, req)

		testutil.Then(t, "it is propagated and echoed", func(t *testing.T) {
			assert.Equal(t, "abc-123", seen)
			assert.Equal(t, "abc-123", rr.Header().Get(Header))
		})
	})

	testutil.Given(t, "no inbound request id", func(t *testing.T) {
		rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodGet, "/", nil))

		testutil.Then(t, "a uuid is generated", func(t *testing.T) {
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
			assert.Equal(t, seen, rr.Header().Get(Header))
		})
	})

	testutil.Given(t, "an oversized inbound request id", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodGet, "/", nil)
		req.Header.Set(Header, strings.Repeat("x", maxInboundLength+1))
		testutil.DoRequest(h, req)

		testutil.Then(t, "it is replaced", func(t *testing.T) {
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
		})
	})
}
