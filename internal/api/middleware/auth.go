package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// UnauthorizedMessage is returned for a missing, malformed or invalid token
const UnauthorizedMessage = "Unauthorized: Invalid or missing token"

type adminClaimsKey struct{}

// AdminClaims are the claims carried by an admin bearer token
type AdminClaims struct {
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 admin bearer tokens
type Authenticator struct {
	secret []byte
	now    func() time.Time
}

// NewAuthenticator creates an authenticator for tokens signed with secret
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret), now: time.Now}
}

// IssueToken signs a token for subject valid for ttl
func (a *Authenticator) IssueToken(subject string, ttl time.Duration) (string, error) {
	now := a.now()
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses and validates a raw token
func (a *Authenticator) Verify(raw string) (*AdminClaims, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("no signing secret configured")
	}

	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RequireAdmin rejects requests without a valid Authorization: Bearer token
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			writeUnauthorized(w)
			return
		}

		claims, err := a.Verify(raw)
		if err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected admin token")
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), adminClaimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims of an authenticated admin request
func ClaimsFromContext(ctx context.Context) (*AdminClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey{}).(*AdminClaims)
	return claims, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"` + UnauthorizedMessage + `"}` + "\n"))
}
