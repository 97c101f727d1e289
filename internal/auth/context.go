// internal/auth/context.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

type contextKey string

const (
	userIDKey = contextKey("userID")
	claimsKey = contextKey("claims")
)

// Сохраняет userID в контексте
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Достает userID из контекста
func GetUserIDFromContext(ctx context.Context) (uint, error) {
	val := ctx.Value(userIDKey)
	id, ok := val.(uint)
	if !ok {
		return 0, errors.New("user ID not found in context")
	}
	return id, nil
}

// UserIDOrZero возвращает userID из контекста или 0 для анонима
func UserIDOrZero(ctx context.Context) uint {
	id, err := GetUserIDFromContext(ctx)
	if err != nil {
		return 0
	}
	return id
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext возвращает claims токена текущего запроса, если он был
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// Revocations сообщает, отозван ли токен (logout)
type Revocations interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Middleware извлекает JWT из cookie сессии или заголовка Authorization,
// проверяет его и кладет userID в context. Без валидного токена запрос
// проходит дальше как анонимный.
func (m *TokenManager) Middleware(revoked Revocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := m.Parse(tokenStr)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(r.Context(), claims.ID)
				if err != nil || isRevoked {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			ctx = withClaims(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin перенаправляет анонимов на страницу входа с параметром next
func RequireLogin(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Запрещаем кэширование защищенных страниц
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")

			if _, err := GetUserIDFromContext(r.Context()); err != nil {
				target := loginURL + "?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return extractTokenFromHeader(r.Header.Get("Authorization"))
}

func extractTokenFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
