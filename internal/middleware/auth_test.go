package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/models"
	"ledgerly/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockUserService struct {
	getUserByIDFn func(id string) (*models.User, error)
	calls         int
}

func (m *mockUserService) CreateUser(_, _, _ string) (*models.User, error) {
	return nil, apperrors.ErrInternalServer
}

func (m *mockUserService) VerifyCredentials(_, _ string) (*models.User, error) {
	return nil, apperrors.ErrInvalidCredentials
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	m.calls++
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	u := &models.User{Name: "Alice", Email: "alice@example.com", Password: "hash"}
	u.ID = id
	return u, nil
}

func setupAuthRouter(tokens *token.Service, users *mockUserService) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(tokens, users))
	r.GET("/me", func(c *gin.Context) {
		user := c.MustGet(UserKey).(*models.User)
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey), "user": user})
	})
	return r
}

func doAuthRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func TestAuthMiddleware(t *testing.T) {
	secret := []byte("middleware-test-secret")
	tokens := token.NewService(secret, time.Hour)

	valid, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	expiredSvc := token.NewService(secret, time.Hour, token.WithClock(func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}))
	expired, err := expiredSvc.Issue("user-1")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	foreign, err := token.NewService([]byte("other-secret"), time.Hour).Issue("user-1")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
		wantLookup bool
	}{
		{"missing_header", "", http.StatusUnauthorized, "UNAUTHORIZED", false},
		{"wrong_scheme", "Basic " + valid, http.StatusUnauthorized, "UNAUTHORIZED", false},
		{"no_token", "Bearer ", http.StatusUnauthorized, "UNAUTHORIZED", false},
		{"garbage_token", "Bearer not.a.jwt", http.StatusUnauthorized, "TOKEN_INVALID", false},
		{"foreign_signature", "Bearer " + foreign, http.StatusUnauthorized, "TOKEN_INVALID", false},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "TOKEN_EXPIRED", false},
		{"valid", "Bearer " + valid, http.StatusOK, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserService{}
			rec := doAuthRequest(setupAuthRouter(tokens, users), tt.header)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			body := parseBody(t, rec)
			if tt.wantCode != "" && body["code"] != tt.wantCode {
				t.Errorf("expected code %q, got %v", tt.wantCode, body["code"])
			}
			if tt.wantLookup && users.calls != 1 {
				t.Errorf("expected exactly one user lookup, got %d", users.calls)
			}
			if !tt.wantLookup && users.calls != 0 {
				t.Errorf("expected no user lookup, got %d", users.calls)
			}
		})
	}
}

func TestAuthMiddleware_SetsIdentity(t *testing.T) {
	tokens := token.NewService([]byte("middleware-test-secret"), time.Hour)
	tok, _ := tokens.Issue("user-42")

	rec := doAuthRequest(setupAuthRouter(tokens, &mockUserService{}), "Bearer "+tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := parseBody(t, rec)
	if body["user_id"] != "user-42" {
		t.Errorf("expected user_id user-42, got %v", body["user_id"])
	}
	user := body["user"].(map[string]interface{})
	if _, ok := user["password"]; ok {
		t.Error("password hash must never be serialized")
	}
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	tokens := token.NewService([]byte("middleware-test-secret"), time.Hour)
	tok, _ := tokens.Issue("user-gone")

	users := &mockUserService{getUserByIDFn: func(string) (*models.User, error) {
		return nil, apperrors.ErrUserNotFound
	}}
	rec := doAuthRequest(setupAuthRouter(tokens, users), "Bearer "+tok)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := parseBody(t, rec); body["code"] != "UNAUTHORIZED" {
		t.Errorf("expected UNAUTHORIZED, got %v", body["code"])
	}
}
