package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ledgerly/internal/logger"
	"ledgerly/internal/services"
	"ledgerly/internal/testutil"
	"ledgerly/internal/token"
)

var testSecret = []byte("router-test-secret")

// testApp holds the full application stack backed by an in-memory database.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Tokens *token.Service
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	tokens := token.NewService(testSecret, token.DefaultTTL)
	users := services.NewUserService(db, bcrypt.MinCost)

	r := New(Deps{
		Tokens:       tokens,
		Users:        users,
		Categories:   services.NewCategoryService(db),
		Transactions: services.NewTransactionService(db),
		Reports:      services.NewReportService(db, time.Local),
		Audit:        services.NewAuditService(db),
		CORSOrigins:  "*",
	})

	return &testApp{DB: db, Router: r, Tokens: tokens}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

const testPassword = "Sup3r$ecret"

// registerUser registers a user and returns the token and user id.
func (app *testApp) registerUser(t *testing.T, email string) (string, string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Test","email":%q,"password":%q}`, email, testPassword)
	rec := app.request(http.MethodPost, "/api/auth/register", body, "")
	expectStatus(t, rec, http.StatusCreated)

	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// createCategory creates a category and returns its id.
func (app *testApp) createCategory(t *testing.T, tok, name string) string {
	t.Helper()
	rec := app.request(http.MethodPost, "/api/categories", fmt.Sprintf(`{"name":%q}`, name), tok)
	expectStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["id"].(string)
}

// createExpense creates an expense dated now and returns its id.
func (app *testApp) createExpense(t *testing.T, tok, categoryID, amount string) string {
	t.Helper()
	body := fmt.Sprintf(`{"amount":%s,"type":"expense","category":%q}`, amount, categoryID)
	rec := app.request(http.MethodPost, "/api/transactions", body, tok)
	expectStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["id"].(string)
}
