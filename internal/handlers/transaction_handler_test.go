package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"moneyboard/internal/dates"
	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/events"
	"moneyboard/internal/models"
	"moneyboard/internal/pagination"
	"moneyboard/internal/services"
)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/", injectTenant(testTenantID))
	g.POST("/transactions", handler.CreateTransaction)
	g.GET("/transactions", handler.GetTransactions)
	g.GET("/transactions/:id", handler.GetTransactionByID)
	g.PUT("/transactions/:id", handler.UpdateTransaction)
	g.DELETE("/transactions/:id", handler.DeleteTransaction)
	g.GET("/accounts/:id/transactions", handler.GetAccountTransactions)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		pub := events.NewMemoryPublisher()
		svc := &mockTransactionService{
			createTransactionFn: func(_ context.Context, _ string, in services.TransactionInput) (*models.Transaction, error) {
				if in.Type != models.TransactionTypeExpense {
					t.Errorf("expected expense, got %s", in.Type)
				}
				if !in.Date.Equal(dates.New(2024, 3, 15)) {
					t.Errorf("expected date 2024-03-15, got %s", in.Date)
				}
				if in.CategoryID == nil || *in.CategoryID != otherID {
					t.Errorf("expected category %s, got %v", otherID, in.CategoryID)
				}
				return &models.Transaction{
					Base:      models.Base{ID: testID},
					AccountID: in.AccountID,
					Type:      in.Type,
					Amount:    in.Amount,
					Date:      in.Date,
				}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}, pub))

		rec := doRequest(r, http.MethodPost, "/transactions",
			`{"account_id":"`+testID+`","category_id":"`+otherID+`","type":"expense","amount":"42.10","date":"2024-03-15"}`)

		assertStatus(t, rec, http.StatusCreated)
		tx := parseJSON(t, rec)["transaction"].(map[string]any)
		if tx["date"] != "2024-03-15" {
			t.Errorf("expected date 2024-03-15, got %v", tx["date"])
		}
		if got := pub.Types(); len(got) != 1 || got[0] != events.TransactionCreated {
			t.Errorf("expected %s event, got %v", events.TransactionCreated, got)
		}
	})

	t.Run("omitted date is left to the service", func(t *testing.T) {
		svc := &mockTransactionService{
			createTransactionFn: func(_ context.Context, _ string, in services.TransactionInput) (*models.Transaction, error) {
				if !in.Date.IsZero() {
					t.Errorf("expected zero date, got %s", in.Date)
				}
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, nil, nil))
		rec := doRequest(r, http.MethodPost, "/transactions", `{"account_id":"`+testID+`","type":"income","amount":"5"}`)
		assertStatus(t, rec, http.StatusCreated)
	})

	for name, body := range map[string]string{
		"returns 400 on zero amount":       `{"account_id":"` + testID + `","type":"income","amount":"0"}`,
		"returns 400 on negative amount":   `{"account_id":"` + testID + `","type":"income","amount":"-3"}`,
		"returns 400 on unknown type":      `{"account_id":"` + testID + `","type":"refund","amount":"3"}`,
		"returns 400 on bad date":          `{"account_id":"` + testID + `","type":"income","amount":"3","date":"15/03/2024"}`,
		"returns 400 on malformed account": `{"account_id":"acc-1","type":"income","amount":"3"}`,
	} {
		t.Run(name, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, nil, nil))
			rec := doRequest(r, http.MethodPost, "/transactions", body)
			assertStatus(t, rec, http.StatusBadRequest)
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("maps foreign account to INVALID_ACCOUNT", func(t *testing.T) {
		svc := &mockTransactionService{
			createTransactionFn: func(context.Context, string, services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrInvalidAccount
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, nil, nil))
		rec := doRequest(r, http.MethodPost, "/transactions", `{"account_id":"`+testID+`","type":"income","amount":"5"}`)
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_ACCOUNT")
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("parses filters", func(t *testing.T) {
		svc := &mockTransactionService{
			getTransactionsFn: func(_ context.Context, _ string, _ pagination.PageRequest, f services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				if f.AccountID == nil || *f.AccountID != testID {
					t.Errorf("expected account filter %s, got %v", testID, f.AccountID)
				}
				if f.Type == nil || *f.Type != models.TransactionTypeIncome {
					t.Errorf("expected income filter, got %v", f.Type)
				}
				if f.FromDate == nil || f.FromDate.String() != "2024-01-01" {
					t.Errorf("expected from_date 2024-01-01, got %v", f.FromDate)
				}
				if f.ToDate == nil || f.ToDate.String() != "2024-01-31" {
					t.Errorf("expected to_date 2024-01-31, got %v", f.ToDate)
				}
				if f.MinAmount == nil || f.MinAmount.String() != "10" {
					t.Errorf("expected min_amount 10, got %v", f.MinAmount)
				}
				if f.MaxAmount != nil || f.CategoryID != nil {
					t.Error("expected unset filters to stay nil")
				}
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, nil, nil))
		rec := doRequest(r, http.MethodGet,
			"/transactions?account_id="+testID+"&type=income&from_date=2024-01-01&to_date=2024-01-31&min_amount=10", "")
		assertStatus(t, rec, http.StatusOK)
	})

	for name, query := range map[string]string{
		"returns 400 on invalid type":       "type=transfer",
		"returns 400 on invalid from_date":  "from_date=2024-13-01",
		"returns 400 on invalid min_amount": "min_amount=ten",
		"returns 400 on invalid account_id": "account_id=nope",
	} {
		t.Run(name, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, nil, nil))
			rec := doRequest(r, http.MethodGet, "/transactions?"+query, "")
			assertStatus(t, rec, http.StatusBadRequest)
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("account route overrides the account filter", func(t *testing.T) {
		svc := &mockTransactionService{
			getTransactionsFn: func(_ context.Context, _ string, _ pagination.PageRequest, f services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				if f.AccountID == nil || *f.AccountID != testID {
					t.Errorf("expected account %s, got %v", testID, f.AccountID)
				}
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, nil, nil))
		rec := doRequest(r, http.MethodGet, "/accounts/"+testID+"/transactions?account_id="+otherID, "")
		assertStatus(t, rec, http.StatusOK)
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("empty category clears it", func(t *testing.T) {
		svc := &mockTransactionService{
			updateTransactionFn: func(_ context.Context, _, _ string, f services.TransactionUpdateFields) (*models.Transaction, error) {
				if f.CategoryID == nil || *f.CategoryID != "" {
					t.Errorf("expected empty category, got %v", f.CategoryID)
				}
				if f.Amount != nil || f.Type != nil || f.Date != nil || f.AccountID != nil {
					t.Error("expected other fields to stay nil")
				}
				return &models.Transaction{Base: models.Base{ID: testID}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, nil, nil))
		rec := doRequest(r, http.MethodPut, "/transactions/"+testID, `{"category_id":""}`)
		assertStatus(t, rec, http.StatusOK)
	})

	t.Run("converts type and date", func(t *testing.T) {
		svc := &mockTransactionService{
			updateTransactionFn: func(_ context.Context, _, _ string, f services.TransactionUpdateFields) (*models.Transaction, error) {
				if f.Type == nil || *f.Type != models.TransactionTypeIncome {
					t.Errorf("expected income, got %v", f.Type)
				}
				if f.Date == nil || f.Date.String() != "2024-02-29" {
					t.Errorf("expected 2024-02-29, got %v", f.Date)
				}
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, nil, nil))
		rec := doRequest(r, http.MethodPut, "/transactions/"+testID, `{"type":"income","date":"2024-02-29"}`)
		assertStatus(t, rec, http.StatusOK)
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockTransactionService{
			updateTransactionFn: func(context.Context, string, string, services.TransactionUpdateFields) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, nil, nil))
		rec := doRequest(r, http.MethodPut, "/transactions/"+testID, `{"description":"x"}`)
		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		var deleted string
		svc := &mockTransactionService{
			deleteTransactionFn: func(_ context.Context, _, id string) error {
				deleted = id
				return nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, nil, nil))
		rec := doRequest(r, http.MethodDelete, "/transactions/"+testID, "")
		assertStatus(t, rec, http.StatusNoContent)
		if deleted != testID {
			t.Errorf("expected %s deleted, got %q", testID, deleted)
		}
	})
}
