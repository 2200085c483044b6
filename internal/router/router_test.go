package router

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"ledgerly/internal/models"
	"ledgerly/internal/token"
)

func TestHealthAndDocs(t *testing.T) {
	app := setupApp(t)

	expectStatus(t, app.request(http.MethodGet, "/api/health", "", ""), http.StatusOK)

	rec := app.request(http.MethodGet, "/swagger/doc.json", "", "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "/reports/category-pie") {
		t.Error("expected swagger document to describe the report route")
	}
}

func TestAuthFlow_RegisterLoginProfile(t *testing.T) {
	app := setupApp(t)

	regToken, userID := app.registerUser(t, "Auth@Test.com")
	if regToken == "" || userID == "" {
		t.Fatal("expected token and user id from registration")
	}

	body := fmt.Sprintf(`{"email":"auth@test.com","password":%q}`, testPassword)
	rec := app.request(http.MethodPost, "/api/auth/login", body, "")
	expectStatus(t, rec, http.StatusOK)
	loginToken := parseJSON(t, rec)["token"].(string)

	rec = app.request(http.MethodGet, "/api/profile", "", loginToken)
	expectStatus(t, rec, http.StatusOK)
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["email"] != "auth@test.com" || user["id"] != userID {
		t.Errorf("unexpected profile: %v", user)
	}
}

func TestAuthFlow_Failures(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "dup@test.com")

	t.Run("duplicate email any case", func(t *testing.T) {
		body := fmt.Sprintf(`{"name":"X","email":" DUP@test.com ","password":%q}`, testPassword)
		rec := app.request(http.MethodPost, "/api/auth/register", body, "")
		expectStatus(t, rec, http.StatusBadRequest)
		if parseJSON(t, rec)["code"] != "DUPLICATE_EMAIL" {
			t.Errorf("expected DUPLICATE_EMAIL, got %s", rec.Body.String())
		}
	})

	t.Run("weak password names the rule", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/auth/register",
			`{"name":"X","email":"weak@test.com","password":"alllowercase1!"}`, "")
		expectStatus(t, rec, http.StatusBadRequest)
		if msg := parseJSON(t, rec)["message"].(string); !strings.Contains(msg, "uppercase") {
			t.Errorf("expected uppercase rule in message, got %q", msg)
		}
	})

	t.Run("password longer than bcrypt accepts", func(t *testing.T) {
		long := "Aa1!" + strings.Repeat("x", 76)

		rec := app.request(http.MethodPost, "/api/auth/register",
			fmt.Sprintf(`{"name":"X","email":"long@test.com","password":%q}`, long), "")
		expectStatus(t, rec, http.StatusBadRequest)
		if msg := parseJSON(t, rec)["message"].(string); !strings.Contains(msg, "72 bytes") {
			t.Errorf("expected length rule in message, got %q", msg)
		}

		rec = app.request(http.MethodPost, "/api/auth/login",
			fmt.Sprintf(`{"email":"dup@test.com","password":%q}`, long), "")
		expectStatus(t, rec, http.StatusBadRequest)
		if parseJSON(t, rec)["code"] != "INVALID_CREDENTIALS" {
			t.Errorf("expected INVALID_CREDENTIALS, got %s", rec.Body.String())
		}
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		wrong := app.request(http.MethodPost, "/api/auth/login",
			`{"email":"dup@test.com","password":"Wr0ng$pass"}`, "")
		unknown := app.request(http.MethodPost, "/api/auth/login",
			fmt.Sprintf(`{"email":"ghost@test.com","password":%q}`, testPassword), "")

		expectStatus(t, wrong, http.StatusBadRequest)
		expectStatus(t, unknown, http.StatusBadRequest)
		if wrong.Body.String() != unknown.Body.String() {
			t.Errorf("expected identical bodies, got %s vs %s", wrong.Body.String(), unknown.Body.String())
		}
	})
}

func TestAuthGate(t *testing.T) {
	app := setupApp(t)
	_, userID := app.registerUser(t, "gate@test.com")

	expired, err := token.NewService(testSecret, token.DefaultTTL, token.WithClock(func() time.Time {
		return time.Now().Add(-48 * time.Hour)
	})).Issue(userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	foreign, err := token.NewService([]byte("another-secret"), token.DefaultTTL).Issue(userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ghost, err := app.Tokens.Issue("0190b5e4-9999-7000-8000-000000000009")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name string
		tok  string
		code string
	}{
		{"missing", "", "UNAUTHORIZED"},
		{"expired", expired, "TOKEN_EXPIRED"},
		{"bad_signature", foreign, "TOKEN_INVALID"},
		{"unknown_user", ghost, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.request(http.MethodGet, "/api/categories", "", tt.tok)
			expectStatus(t, rec, http.StatusUnauthorized)
			if got := parseJSON(t, rec)["code"]; got != tt.code {
				t.Errorf("expected %s, got %v", tt.code, got)
			}
		})
	}
}

func TestEndToEnd_ExpenseAppearsInReport(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "e2e@test.com")

	rec := app.request(http.MethodPost, "/api/auth/login",
		fmt.Sprintf(`{"email":"e2e@test.com","password":%q}`, testPassword), "")
	expectStatus(t, rec, http.StatusOK)
	tok := parseJSON(t, rec)["token"].(string)

	rec = app.request(http.MethodPost, "/api/categories", `{"name":"Groceries","monthlyBudget":200}`, tok)
	expectStatus(t, rec, http.StatusCreated)
	created := parseJSON(t, rec)
	if created["monthly_budget"] != float64(200) {
		t.Fatalf("expected budget 200 to be stored, got %v", created["monthly_budget"])
	}
	categoryID := created["id"].(string)

	now := time.Now()
	body := fmt.Sprintf(`{"amount":42.50,"type":"expense","category":%q,"date":%q}`, categoryID, now.Format(time.RFC3339))
	expectStatus(t, app.request(http.MethodPost, "/api/transactions", body, tok), http.StatusCreated)

	rec = app.request(http.MethodGet, "/api/transactions", "", tok)
	expectStatus(t, rec, http.StatusOK)
	items := parseJSONArray(t, rec)
	if len(items) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(items))
	}
	category, ok := items[0]["category"].(map[string]interface{})
	if !ok || category["name"] != "Groceries" {
		t.Errorf("expected populated category Groceries, got %v", items[0]["category"])
	}

	rec = app.request(http.MethodGet, "/api/reports/category-pie?month="+now.Format("2006-01"), "", tok)
	expectStatus(t, rec, http.StatusOK)
	totals := parseJSONArray(t, rec)
	if len(totals) != 1 || totals[0]["category"] != "Groceries" || totals[0]["total"] != 42.5 {
		t.Errorf("expected [{Groceries 42.5}], got %v", totals)
	}
}

func TestReports(t *testing.T) {
	app := setupApp(t)
	tok, _ := app.registerUser(t, "reports@test.com")

	food := app.createCategory(t, tok, "Food")
	rent := app.createCategory(t, tok, "Rent")
	app.createExpense(t, tok, food, "10")
	app.createExpense(t, tok, food, "20")
	app.createExpense(t, tok, rent, "5")

	outside := time.Now().AddDate(0, -2, 0).Format(time.RFC3339)
	expectStatus(t, app.request(http.MethodPost, "/api/transactions",
		fmt.Sprintf(`{"amount":99,"type":"expense","category":%q,"date":%q}`, food, outside), tok), http.StatusCreated)
	expectStatus(t, app.request(http.MethodPost, "/api/transactions",
		`{"amount":1000,"type":"income"}`, tok), http.StatusCreated)

	month := time.Now().Format("2006-01")

	t.Run("category totals", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/reports/category-pie?month="+month, "", tok)
		expectStatus(t, rec, http.StatusOK)

		got := map[string]float64{}
		for _, row := range parseJSONArray(t, rec) {
			got[row["category"].(string)] = row["total"].(float64)
		}
		if len(got) != 2 || got["Food"] != 30 || got["Rent"] != 5 {
			t.Errorf("expected {Food:30 Rent:5}, got %v", got)
		}
	})

	t.Run("summary", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/reports/summary?month="+month, "", tok)
		expectStatus(t, rec, http.StatusOK)
		result := parseJSON(t, rec)
		if result["income"] != float64(1000) || result["expense"] != float64(35) || result["balance"] != float64(965) {
			t.Errorf("unexpected summary: %v", result)
		}
	})

	t.Run("bad month", func(t *testing.T) {
		for _, q := range []string{"?month=2025-13", "?month=", ""} {
			rec := app.request(http.MethodGet, "/api/reports/category-pie"+q, "", tok)
			expectStatus(t, rec, http.StatusBadRequest)
		}
	})

	t.Run("empty month", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/reports/category-pie?month=1999-01", "", tok)
		expectStatus(t, rec, http.StatusOK)
		if strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Errorf("expected empty list, got %s", rec.Body.String())
		}
	})
}

func TestOwnershipIsolation(t *testing.T) {
	app := setupApp(t)
	tokA, _ := app.registerUser(t, "a@test.com")
	tokB, _ := app.registerUser(t, "b@test.com")

	categoryID := app.createCategory(t, tokA, "Food")
	transactionID := app.createExpense(t, tokA, categoryID, "12")

	t.Run("lists exclude other users", func(t *testing.T) {
		for _, path := range []string{"/api/categories", "/api/transactions"} {
			rec := app.request(http.MethodGet, path, "", tokB)
			expectStatus(t, rec, http.StatusOK)
			if items := parseJSONArray(t, rec); len(items) != 0 {
				t.Errorf("%s: expected nothing for B, got %d items", path, len(items))
			}
		}
	})

	t.Run("foreign resources are forbidden", func(t *testing.T) {
		tests := []struct {
			method string
			path   string
			body   string
		}{
			{http.MethodGet, "/api/categories/" + categoryID, ""},
			{http.MethodPut, "/api/categories/" + categoryID, `{"name":"Mine"}`},
			{http.MethodDelete, "/api/categories/" + categoryID, ""},
			{http.MethodGet, "/api/transactions/" + transactionID, ""},
			{http.MethodDelete, "/api/transactions/" + transactionID, ""},
		}
		for _, tt := range tests {
			rec := app.request(tt.method, tt.path, tt.body, tokB)
			expectStatus(t, rec, http.StatusForbidden)
		}

		var count int64
		app.DB.Model(&models.Transaction{}).Where("id = ?", transactionID).Count(&count)
		if count != 1 {
			t.Error("expected A's transaction to survive B's delete attempt")
		}
	})

	t.Run("missing resources are not found", func(t *testing.T) {
		missing := "0190b5e4-8888-7000-8000-000000000008"
		expectStatus(t, app.request(http.MethodDelete, "/api/categories/"+missing, "", tokB), http.StatusNotFound)
		expectStatus(t, app.request(http.MethodDelete, "/api/transactions/"+missing, "", tokB), http.StatusNotFound)
	})

	t.Run("cannot book expense on foreign category", func(t *testing.T) {
		body := fmt.Sprintf(`{"amount":5,"type":"expense","category":%q}`, categoryID)
		expectStatus(t, app.request(http.MethodPost, "/api/transactions", body, tokB), http.StatusBadRequest)
	})
}

func TestCategoryLifecycle(t *testing.T) {
	app := setupApp(t)
	tok, _ := app.registerUser(t, "cat@test.com")

	app.createCategory(t, tok, "Transport")
	foodID := app.createCategory(t, tok, "Food")

	t.Run("duplicate name", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/categories", `{"name":"Food"}`, tok)
		expectStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("sorted by name", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/categories", "", tok)
		expectStatus(t, rec, http.StatusOK)
		items := parseJSONArray(t, rec)
		if len(items) != 2 || items[0]["name"] != "Food" || items[1]["name"] != "Transport" {
			t.Errorf("expected [Food Transport], got %v", items)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		rec := app.request(http.MethodPut, "/api/categories/"+foodID, `{"monthlyBudget":150}`, tok)
		expectStatus(t, rec, http.StatusOK)
		result := parseJSON(t, rec)
		if result["name"] != "Food" || result["monthly_budget"] != float64(150) {
			t.Errorf("unexpected update result: %v", result)
		}
	})

	t.Run("delete leaves transactions without category", func(t *testing.T) {
		app.createExpense(t, tok, foodID, "8")

		rec := app.request(http.MethodDelete, "/api/categories/"+foodID, "", tok)
		expectStatus(t, rec, http.StatusOK)

		rec = app.request(http.MethodGet, "/api/transactions", "", tok)
		expectStatus(t, rec, http.StatusOK)
		items := parseJSONArray(t, rec)
		if len(items) != 1 {
			t.Fatalf("expected transaction to survive, got %d", len(items))
		}
		if _, ok := items[0]["category"]; ok {
			t.Errorf("expected no category, got %v", items[0]["category"])
		}
		if items[0]["category_id"] != foodID {
			t.Errorf("expected dangling category_id %s, got %v", foodID, items[0]["category_id"])
		}

		rec = app.request(http.MethodGet, "/api/reports/category-pie?month="+time.Now().Format("2006-01"), "", tok)
		expectStatus(t, rec, http.StatusOK)
		if strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Errorf("expected deleted category to drop out of report, got %s", rec.Body.String())
		}
	})
}

func TestTransactionRules(t *testing.T) {
	app := setupApp(t)
	tok, _ := app.registerUser(t, "tx@test.com")
	categoryID := app.createCategory(t, tok, "Food")

	t.Run("expense requires category", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/transactions", `{"amount":5,"type":"expense"}`, tok)
		expectStatus(t, rec, http.StatusBadRequest)
		if parseJSON(t, rec)["code"] != "CATEGORY_REQUIRED" {
			t.Errorf("expected CATEGORY_REQUIRED, got %s", rec.Body.String())
		}
	})

	t.Run("income drops supplied category", func(t *testing.T) {
		body := fmt.Sprintf(`{"amount":5,"type":"income","category":%q}`, categoryID)
		rec := app.request(http.MethodPost, "/api/transactions", body, tok)
		expectStatus(t, rec, http.StatusCreated)
		if _, ok := parseJSON(t, rec)["category_id"]; ok {
			t.Error("expected income without category_id")
		}
	})

	t.Run("filters and pagination", func(t *testing.T) {
		app.createExpense(t, tok, categoryID, "1")
		app.createExpense(t, tok, categoryID, "2")

		rec := app.request(http.MethodGet, "/api/transactions?type=expense&page=1&page_size=1", "", tok)
		expectStatus(t, rec, http.StatusOK)
		if rec.Header().Get("X-Total-Count") != "2" {
			t.Errorf("expected X-Total-Count 2, got %q", rec.Header().Get("X-Total-Count"))
		}
		if items := parseJSONArray(t, rec); len(items) != 1 {
			t.Errorf("expected page of 1, got %d", len(items))
		}

		today := time.Now().Format("2006-01-02")
		rec = app.request(http.MethodGet, "/api/transactions?from="+today+"&to="+today, "", tok)
		expectStatus(t, rec, http.StatusOK)
		if items := parseJSONArray(t, rec); len(items) != 3 {
			t.Errorf("expected today's 3 transactions with inclusive to, got %d", len(items))
		}
	})

	t.Run("export csv", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/transactions/export?type=expense", "", tok)
		expectStatus(t, rec, http.StatusOK)
		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		if len(lines) != 3 {
			t.Errorf("expected header + 2 expense rows, got %d lines", len(lines))
		}
	})
}
