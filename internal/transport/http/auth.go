package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// RoleAdmin grants access to the campaign operator routes.
const RoleAdmin = "admin"

// Claims carries the authenticated user id and role.
type Claims struct {
	jwt.RegisteredClaims
	ID   int64  `json:"id"`
	Role string `json:"role,omitempty"`
}

type principalKey struct{}

// Authenticator verifies HS256 bearer tokens.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// NewToken signs a token for userID valid for ttl.
func (a *Authenticator) NewToken(userID int64, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		ID:   userID,
		Role: role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) parse(r *http.Request) (*Claims, bool) {
	raw := r.Header.Get("Authorization")
	if !strings.HasPrefix(raw, "Bearer ") {
		return nil, false
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(raw, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.ID <= 0 {
		return nil, false
	}
	return claims, true
}

// RequireUser rejects requests without a valid token.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := a.parse(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing or invalid token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, claims)))
	})
}

// RequireAdmin additionally requires the admin role.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principal(r).Role != RoleAdmin {
			writeJSON(w, http.StatusForbidden, errorBody{Error: "admin role required"})
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func principal(r *http.Request) *Claims {
	claims, _ := r.Context().Value(principalKey{}).(*Claims)
	if claims == nil {
		return &Claims{}
	}
	return claims
}
