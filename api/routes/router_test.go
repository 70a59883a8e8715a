package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tiendalopez/pos-backend/internal/audit"
	authsvc "github.com/tiendalopez/pos-backend/internal/auth"
	"github.com/tiendalopez/pos-backend/internal/branches"
	"github.com/tiendalopez/pos-backend/internal/cart"
	"github.com/tiendalopez/pos-backend/internal/catalog"
	checkoutsvc "github.com/tiendalopez/pos-backend/internal/checkout"
	"github.com/tiendalopez/pos-backend/internal/payment"
	"github.com/tiendalopez/pos-backend/internal/reports"
	"github.com/tiendalopez/pos-backend/internal/sales"
	"github.com/tiendalopez/pos-backend/internal/subscription"
	"github.com/tiendalopez/pos-backend/internal/users"
	"github.com/tiendalopez/pos-backend/pkg/auth/session"
	"github.com/tiendalopez/pos-backend/pkg/config"
	"github.com/tiendalopez/pos-backend/pkg/db"
	"github.com/tiendalopez/pos-backend/pkg/enums"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "0", LogLevel: "info"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "pos-backend",
			ExpirationMinutes: 60,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8 * 1024,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		Payment:  config.PaymentConfig{GatewayTimeout: time.Second},
		Business: config.BusinessConfig{Name: "Tienda López", TicketPrefix: "T"},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig()

	dbClient, err := db.New(context.Background(), config.DBConfig{
		Path:        fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")),
		AutoMigrate: true,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { dbClient.Close() })

	sessions, err := session.NewManager(time.Hour)
	require.NoError(t, err)

	auditService, err := audit.NewService(dbClient, nil)
	require.NoError(t, err)

	userRepo, err := users.BuildSeedRepository(cfg.Password)
	require.NoError(t, err)

	branchService := branches.NewService(branches.SeedBranches(), auditService)
	catalogRepo := catalog.NewRepository(catalog.SeedItems())

	authService, err := authsvc.NewService(cfg.JWT, userRepo, branchService, sessions, auditService, nil)
	require.NoError(t, err)

	cartService, err := cart.NewService(catalogRepo, auditService)
	require.NoError(t, err)

	salesRepo, err := sales.NewRepository(dbClient)
	require.NoError(t, err)
	salesService, err := sales.NewService(salesRepo, sales.NewTicketSequence("T", salesRepo), auditService, nil, nil)
	require.NoError(t, err)

	checkoutService, err := checkoutsvc.NewService(
		cfg.Payment, cfg.Business, cartService,
		payment.NewSimulatedGateway(1.0, 0), payment.NewRegistry(),
		salesService, subscription.NewService(time.Now()), branchService, nil, nil,
	)
	require.NoError(t, err)

	reportService, err := reports.NewService(salesService)
	require.NoError(t, err)

	return NewRouter(Deps{
		Config:       cfg,
		Logger:       nil,
		DB:           dbClient,
		Sessions:     sessions,
		Catalog:      catalogRepo,
		Users:        userRepo,
		Branches:     branchService,
		Auth:         authService,
		Cart:         cartService,
		Checkout:     checkoutService,
		Sales:        salesService,
		Reports:      reportService,
		Subscription: subscription.NewService(time.Now()),
		Audit:        auditService,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "demo123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token)
	return envelope.Data.Token
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterFlowEndToEnd(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "cajero@demo.com")

	// Find a product to sell.
	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/?q=coca", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var products struct {
		Data struct {
			Products []struct {
				ID string `json:"id"`
			} `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products.Data.Products, 1)
	productID := products.Data.Products[0].ID

	// Two units in the cart.
	for i := 0; i < 2; i++ {
		rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", token, map[string]string{"product_id": productID})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cartView struct {
		Data struct {
			Totals struct {
				Total string `json:"total"`
			} `json:"totals"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cartView))
	require.Equal(t, "36", cartView.Data.Totals.Total)

	// Cash checkout with change.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/checkout/", token, map[string]any{
		"method":          "cash",
		"tendered_amount": "50.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var payResult struct {
		Data struct {
			Sale struct {
				ID           string `json:"ID"`
				TicketNumber string `json:"TicketNumber"`
			} `json:"sale"`
			Receipt   string `json:"receipt"`
			ChangeDue string `json:"change_due"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payResult))
	require.Equal(t, "T-CEN-000001", payResult.Data.Sale.TicketNumber)
	require.Equal(t, "14", payResult.Data.ChangeDue)
	require.Contains(t, payResult.Data.Receipt, "Tienda López")

	// Cart is empty again.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var emptied struct {
		Data struct {
			Lines []any `json:"lines"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &emptied))
	require.Empty(t, emptied.Data.Lines)

	// The sale shows in history.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/sales/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Equal(t, 1, history.Data.Count)
}

func TestDiscountGateByRole(t *testing.T) {
	router := newTestRouter(t)

	cashier := login(t, router, "cajero@demo.com")
	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/discount", cashier, map[string]any{"percent": "10"})
	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	admin := login(t, router, "admin@demo.com")
	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/discount", admin, map[string]any{"percent": "10"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The authorization lands in the audit trail with the operator's name.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/audit/?action="+string(enums.AuditActionDiscountApplied), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var trail struct {
		Data struct {
			Entries []struct {
				ActorName string `json:"ActorName"`
				Details   string `json:"Details"`
			} `json:"entries"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trail))
	require.Len(t, trail.Data.Entries, 1)
	require.Equal(t, "María García", trail.Data.Entries[0].ActorName)
	require.Contains(t, trail.Data.Entries[0].Details, "10%")
}

func TestCartZeroDeltaIsAccepted(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "cajero@demo.com")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/?q=coca", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products struct {
		Data struct {
			Products []struct {
				ID string `json:"id"`
			} `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	productID := products.Data.Products[0].ID

	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", token, map[string]string{"product_id": productID})
	require.Equal(t, http.StatusOK, rec.Code)

	// A zero delta is a no-op at the ledger, not a validation error.
	rec = doJSON(t, router, http.MethodPatch, "/api/v1/cart/items/"+productID, token, map[string]int{"delta": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result struct {
		Data struct {
			Cart struct {
				Lines []struct {
					Quantity string `json:"quantity"`
				} `json:"lines"`
			} `json:"cart"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Data.Cart.Lines, 1)
	require.Equal(t, "1", result.Data.Cart.Lines[0].Quantity)
}

func TestProductAdministration(t *testing.T) {
	router := newTestRouter(t)

	cashier := login(t, router, "cajero@demo.com")
	newProduct := map[string]any{
		"name":          "Galletas Marías",
		"sku":           "BOT-003",
		"barcode":       "7501055300150",
		"category":      "Botanas",
		"unit_price":    "22.00",
		"available_qty": "15",
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/products/", cashier, newProduct)
	require.Equal(t, http.StatusForbidden, rec.Code)

	admin := login(t, router, "admin@demo.com")
	rec = doJSON(t, router, http.MethodPost, "/api/v1/products/", admin, newProduct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	// The new item is immediately sellable.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/barcode/7501055300150", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Edit the price.
	edited := newProduct
	edited["unit_price"] = "24.50"
	rec = doJSON(t, router, http.MethodPut, "/api/v1/products/"+created.Data.ID, admin, edited)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated struct {
		Data struct {
			UnitPrice string `json:"unit_price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "24.5", updated.Data.UnitPrice)

	// Deactivate and the item leaves the register grid.
	active := false
	rec = doJSON(t, router, http.MethodPost, "/api/v1/products/"+created.Data.ID+"/active", admin, map[string]any{"active": &active})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/barcode/7501055300150", admin, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// A zero price is rejected.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/products/", admin, map[string]any{"name": "Gratis"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportsRequirePrivilegedRole(t *testing.T) {
	router := newTestRouter(t)

	cashier := login(t, router, "cajero@demo.com")
	rec := doJSON(t, router, http.MethodGet, "/api/v1/reports/daily", cashier, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	owner := login(t, router, "owner@demo.com")
	rec = doJSON(t, router, http.MethodGet, "/api/v1/reports/daily", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestBranchToggleOwnerOnly(t *testing.T) {
	router := newTestRouter(t)
	owner := login(t, router, "owner@demo.com")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/branches/", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Data struct {
			Branches []struct {
				ID   string `json:"id"`
				Code string `json:"code"`
			} `json:"branches"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Data.Branches, 3)

	target := listing.Data.Branches[2]
	active := true
	rec = doJSON(t, router, http.MethodPost, "/api/v1/branches/"+target.ID+"/active", owner, map[string]any{"active": &active})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	admin := login(t, router, "admin@demo.com")
	rec = doJSON(t, router, http.MethodPost, "/api/v1/branches/"+target.ID+"/active", admin, map[string]any{"active": &active})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "cajero@demo.com")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownSaleStatusRejected(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "owner@demo.com")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/sales/?status="+string(enums.SaleStatusCompleted), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/sales/?status=bogus", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
