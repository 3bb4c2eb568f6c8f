// Package admin guards operator endpoints with short-lived HS256 bearer tokens.
package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "namescreen/pkg/domain-errors"
	"namescreen/pkg/platform/httputil"
	"namescreen/pkg/requestcontext"
)

const (
	roleClaim = "role"
	adminRole = "admin"
	issuer    = "namescreen"
)

var errNotAdmin = errors.New("token does not carry the admin role")

// IssueToken mints an admin token for subject, valid for ttl.
func IssueToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     subject,
		"iss":     issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
		roleClaim: adminRole,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyToken validates signature, expiry and role and returns the subject.
func VerifyToken(secret []byte, raw string) (string, error) {
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errNotAdmin
	}
	if role, _ := claims[roleClaim].(string); role != adminRole {
		return "", errNotAdmin
	}
	return claims.GetSubject()
}

// RequireAdmin rejects requests without a valid admin bearer token. An empty
// secret disables the admin surface entirely.
func RequireAdmin(secret []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if len(secret) == 0 {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin endpoints are disabled"))
				return
			}

			raw, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || raw == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}

			subject, err := VerifyToken(secret, raw)
			if err != nil {
				logger.WarnContext(ctx, "admin token rejected",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid admin token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithOperator(ctx, subject)))
		})
	}
}
