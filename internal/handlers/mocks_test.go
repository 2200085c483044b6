package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ledgerly/internal/middleware"
	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
	"ledgerly/internal/services"
	"ledgerly/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn        func(name, email, password string) (*models.User, error)
	verifyCredentialsFn func(email, password string) (*models.User, error)
	getUserByIDFn       func(id string) (*models.User, error)
}

func (m *mockUserService) CreateUser(name, email, password string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(name, email, password)
	}
	return newUser(testUserID, name, email), nil
}

func (m *mockUserService) VerifyCredentials(email, password string) (*models.User, error) {
	if m.verifyCredentialsFn != nil {
		return m.verifyCredentialsFn(email, password)
	}
	return newUser(testUserID, "Test", email), nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return newUser(id, "Test", "test@example.com"), nil
}

type mockCategoryService struct {
	createCategoryFn    func(userID, name string, budget decimal.Decimal) (*models.Category, error)
	getUserCategoriesFn func(userID string) ([]models.Category, error)
	getCategoryByIDFn   func(userID, categoryID string) (*models.Category, error)
	updateCategoryFn    func(userID, categoryID string, name *string, budget *decimal.Decimal) (*models.Category, error)
	deleteCategoryFn    func(userID, categoryID string) error
}

func (m *mockCategoryService) CreateCategory(userID, name string, budget decimal.Decimal) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, name, budget)
	}
	return &models.Category{UserID: userID, Name: name, MonthlyBudget: budget}, nil
}

func (m *mockCategoryService) GetUserCategories(userID string) ([]models.Category, error) {
	if m.getUserCategoriesFn != nil {
		return m.getUserCategoriesFn(userID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, categoryID)
	}
	return &models.Category{Base: models.Base{ID: categoryID}, UserID: userID}, nil
}

func (m *mockCategoryService) UpdateCategory(userID, categoryID string, name *string, budget *decimal.Decimal) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, name, budget)
	}
	return &models.Category{Base: models.Base{ID: categoryID}, UserID: userID}, nil
}

func (m *mockCategoryService) DeleteCategory(userID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

type mockTransactionService struct {
	createTransactionFn   func(userID string, categoryID *string, txType models.TransactionType, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	getUserTransactionsFn func(userID string, filter services.TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error)
	getTransactionByIDFn  func(userID, transactionID string) (*models.Transaction, error)
	deleteTransactionFn   func(userID, transactionID string) error
}

func (m *mockTransactionService) CreateTransaction(userID string, categoryID *string, txType models.TransactionType, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, categoryID, txType, amount, description, date)
	}
	return &models.Transaction{UserID: userID, CategoryID: categoryID, Type: txType, Amount: amount, Description: description, Date: date}, nil
}

func (m *mockTransactionService) GetUserTransactions(userID string, filter services.TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, filter, page)
	}
	return []models.Transaction{}, 0, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{Base: models.Base{ID: transactionID}, UserID: userID}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

type mockReportService struct {
	categoryTotalsFn func(userID, yearMonth string) ([]services.CategoryTotal, error)
	monthlySummaryFn func(userID, yearMonth string) (*services.MonthlySummary, error)
}

func (m *mockReportService) CategoryTotals(userID, yearMonth string) ([]services.CategoryTotal, error) {
	if m.categoryTotalsFn != nil {
		return m.categoryTotalsFn(userID, yearMonth)
	}
	return []services.CategoryTotal{}, nil
}

func (m *mockReportService) MonthlySummary(userID, yearMonth string) (*services.MonthlySummary, error) {
	if m.monthlySummaryFn != nil {
		return m.monthlySummaryFn(userID, yearMonth)
	}
	return &services.MonthlySummary{Month: yearMonth}, nil
}

type mockAuditService struct {
	actions []string
}

func (m *mockAuditService) Log(_, action, _, _, _ string, _ map[string]interface{}) {
	m.actions = append(m.actions, action)
}

// --- test helpers ---

const (
	testUserID     = "0190b5e4-1111-7000-8000-000000000001"
	testResourceID = "0190b5e4-2222-7000-8000-000000000002"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func newUser(id, name, email string) *models.User {
	u := &models.User{Name: name, Email: email, Password: "$2a$hash"}
	u.ID = id
	return u
}

func injectUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.UserKey, newUser(userID, "Test", "test@example.com"))
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
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

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["code"] != code {
		t.Errorf("expected error code %q, got %v", code, result["code"])
	}
	if _, ok := result["message"].(string); !ok {
		t.Errorf("expected message string in error body, got %v", result)
	}
}
