package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VitaminP8/blogicum/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[tokenID], nil
}

func testUser() *models.User {
	u := &models.User{Username: "testuser"}
	u.ID = 123
	return u
}

func TestWithUserIDAndGetUserIDFromContext(t *testing.T) {
	t.Run("Store and retrieve user ID from context", func(t *testing.T) {
		ctx := WithUserID(context.Background(), 123)

		retrievedID, err := GetUserIDFromContext(ctx)
		assert.NoError(t, err)
		assert.Equal(t, uint(123), retrievedID)
		assert.Equal(t, uint(123), UserIDOrZero(ctx))
	})

	t.Run("Error when user ID not in context", func(t *testing.T) {
		_, err := GetUserIDFromContext(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found in context")
		assert.Equal(t, uint(0), UserIDOrZero(context.Background()))
	})

	t.Run("Error when context value is not uint", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), userIDKey, "not-a-uint")

		_, err := GetUserIDFromContext(ctx)
		assert.Error(t, err)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	t.Run("Valid Bearer token", func(t *testing.T) {
		assert.Equal(t, "token123", extractTokenFromHeader("Bearer token123"))
	})

	t.Run("Invalid format - no Bearer prefix", func(t *testing.T) {
		assert.Equal(t, "", extractTokenFromHeader("NotBearer token123"))
	})

	t.Run("Invalid format - no space", func(t *testing.T) {
		assert.Equal(t, "", extractTokenFromHeader("Bearertoken123"))
	})

	t.Run("Empty header", func(t *testing.T) {
		assert.Equal(t, "", extractTokenFromHeader(""))
	})
}

func TestMiddleware(t *testing.T) {
	// Обработчик печатает userID из контекста
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := GetUserIDFromContext(r.Context())
		if err == nil {
			fmt.Fprintf(w, "User ID: %d", userID)
		} else {
			fmt.Fprint(w, "No user ID in context")
		}
	})

	tokens := NewTokenManager("test_jwt_secret", time.Hour)
	revoked := &stubRevocations{revoked: map[string]bool{}}
	handler := tokens.Middleware(revoked)(testHandler)

	t.Run("Valid token in cookie", func(t *testing.T) {
		tokenString, err := tokens.Issue(testUser())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tokenString})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "User ID: 123", w.Body.String())
	})

	t.Run("Valid token in header", func(t *testing.T) {
		tokenString, err := tokens.Issue(testUser())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "User ID: 123", w.Body.String())
	})

	t.Run("Invalid token signature", func(t *testing.T) {
		tokenString, err := NewTokenManager("wrong_secret", time.Hour).Issue(testUser())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tokenString})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "No user ID in context", w.Body.String())
	})

	t.Run("Expired token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id":  123,
			"username": "testuser",
			"exp":      time.Now().Add(-time.Hour).Unix(),
		})
		tokenString, err := token.SignedString([]byte("test_jwt_secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "No user ID in context", w.Body.String())
	})

	t.Run("Revoked token", func(t *testing.T) {
		tokenString, err := tokens.Issue(testUser())
		require.NoError(t, err)
		claims, err := tokens.Parse(tokenString)
		require.NoError(t, err)
		revoked.revoked[claims.ID] = true

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tokenString})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "No user ID in context", w.Body.String())
	})

	t.Run("Revocation store failure is treated as anonymous", func(t *testing.T) {
		failing := tokens.Middleware(&stubRevocations{err: errors.New("redis down")})(testHandler)
		tokenString, err := tokens.Issue(testUser())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tokenString})
		w := httptest.NewRecorder()
		failing.ServeHTTP(w, req)

		assert.Equal(t, "No user ID in context", w.Body.String())
	})

	t.Run("No token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "No user ID in context", w.Body.String())
	})
}

func TestRequireLogin(t *testing.T) {
	handler := RequireLogin("/auth/login/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "secret page")
	}))

	t.Run("Anonymous is redirected with next", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts/create/?a=1", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/auth/login/?next=%2Fposts%2Fcreate%2F%3Fa%3D1", w.Header().Get("Location"))
	})

	t.Run("Authenticated user passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts/create/", nil)
		req = req.WithContext(WithUserID(req.Context(), 1))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "secret page", w.Body.String())
	})
}
