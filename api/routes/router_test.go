package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sakani-app/sakani-backend/internal/auth"
	"github.com/sakani-app/sakani-backend/internal/catalog"
	"github.com/sakani-app/sakani-backend/internal/documents"
	"github.com/sakani-app/sakani-backend/internal/invoices"
	"github.com/sakani-app/sakani-backend/internal/maintenance"
	"github.com/sakani-app/sakani-backend/internal/notifications"
	"github.com/sakani-app/sakani-backend/internal/orders"
	"github.com/sakani-app/sakani-backend/internal/users"
	pkgauth "github.com/sakani-app/sakani-backend/pkg/auth"
	"github.com/sakani-app/sakani-backend/pkg/config"
	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
	"github.com/sakani-app/sakani-backend/pkg/logger"
	"github.com/sakani-app/sakani-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "stub"}, nil
}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Me(ctx context.Context, userID uuid.UUID) (*users.UserSummary, error) {
	return &users.UserSummary{ID: userID}, nil
}

func (stubAuthService) UpdatePushToken(ctx context.Context, userID uuid.UUID, req auth.PushTokenRequest) error {
	return nil
}

func (stubAuthService) ListUsers(ctx context.Context, filters users.ListFilters) ([]users.UserSummary, error) {
	return []users.UserSummary{}, nil
}

func (stubAuthService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) Create(ctx context.Context, req catalog.CreateItemRequest) (*catalog.ItemSummary, error) {
	return &catalog.ItemSummary{ID: uuid.New(), Name: req.Name}, nil
}

func (stubCatalogService) Get(ctx context.Context, id uuid.UUID) (*catalog.ItemSummary, error) {
	panic("unimplemented")
}

func (stubCatalogService) List(ctx context.Context, filters catalog.ListFilters) ([]catalog.ItemSummary, error) {
	return []catalog.ItemSummary{}, nil
}

func (stubCatalogService) Update(ctx context.Context, id uuid.UUID, req catalog.UpdateItemRequest) (*catalog.ItemSummary, error) {
	panic("unimplemented")
}

func (stubCatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) AdjustStock(ctx context.Context, id uuid.UUID, req catalog.AdjustStockRequest) (*catalog.ItemSummary, error) {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, input orders.CreateInput) (*orders.OrderSummary, error) {
	panic("unimplemented")
}

func (stubOrdersService) Get(ctx context.Context, actor orders.Actor, id uuid.UUID) (*orders.OrderSummary, error) {
	panic("unimplemented")
}

func (stubOrdersService) List(ctx context.Context, actor orders.Actor, filters orders.ListFilters) ([]orders.OrderSummary, error) {
	return []orders.OrderSummary{}, nil
}

func (stubOrdersService) Transition(ctx context.Context, input orders.TransitionInput) (*orders.OrderSummary, error) {
	panic("unimplemented")
}

func (stubOrdersService) MarkPaid(ctx context.Context, actor orders.Actor, id uuid.UUID) (*orders.OrderSummary, error) {
	panic("unimplemented")
}

type stubInvoicesService struct{}

func (stubInvoicesService) Create(ctx context.Context, actor invoices.Actor, req invoices.CreateInvoiceRequest) (*invoices.InvoiceSummary, error) {
	panic("unimplemented")
}

func (stubInvoicesService) Get(ctx context.Context, actor invoices.Actor, id uuid.UUID) (*invoices.InvoiceSummary, error) {
	panic("unimplemented")
}

func (stubInvoicesService) List(ctx context.Context, actor invoices.Actor, filters invoices.ListFilters) ([]invoices.InvoiceSummary, error) {
	return []invoices.InvoiceSummary{}, nil
}

func (stubInvoicesService) MarkPaid(ctx context.Context, actor invoices.Actor, id uuid.UUID, req invoices.MarkPaidRequest) (*invoices.InvoiceSummary, error) {
	panic("unimplemented")
}

func (stubInvoicesService) Cancel(ctx context.Context, actor invoices.Actor, id uuid.UUID) (*invoices.InvoiceSummary, error) {
	panic("unimplemented")
}

func (stubInvoicesService) AddNote(ctx context.Context, actor invoices.Actor, id uuid.UUID, req invoices.NoteRequest) (*invoices.InvoiceSummary, error) {
	panic("unimplemented")
}

type stubMaintenanceService struct{}

func (stubMaintenanceService) Create(ctx context.Context, actor maintenance.Actor, req maintenance.CreateTicketRequest) (*maintenance.TicketSummary, error) {
	panic("unimplemented")
}

func (stubMaintenanceService) Get(ctx context.Context, actor maintenance.Actor, id uuid.UUID) (*maintenance.TicketSummary, error) {
	panic("unimplemented")
}

func (stubMaintenanceService) List(ctx context.Context, actor maintenance.Actor, filters maintenance.ListFilters) ([]maintenance.TicketSummary, error) {
	return []maintenance.TicketSummary{}, nil
}

func (stubMaintenanceService) UpdateStatus(ctx context.Context, actor maintenance.Actor, id uuid.UUID, req maintenance.StatusRequest) (*maintenance.TicketSummary, error) {
	panic("unimplemented")
}

func (stubMaintenanceService) Assign(ctx context.Context, actor maintenance.Actor, id uuid.UUID, req maintenance.AssignRequest) (*maintenance.TicketSummary, error) {
	panic("unimplemented")
}

func (stubMaintenanceService) AddNote(ctx context.Context, actor maintenance.Actor, id uuid.UUID, req maintenance.NoteRequest) (*maintenance.TicketSummary, error) {
	panic("unimplemented")
}

type stubNotificationsService struct{}

func (stubNotificationsService) OrderStatusChanged(ctx context.Context, order *models.Order) {}

func (stubNotificationsService) InvoiceIssued(ctx context.Context, invoice *models.Invoice) {}

func (stubNotificationsService) InvoicePaid(ctx context.Context, invoice *models.Invoice) {}

func (stubNotificationsService) TicketStatusChanged(ctx context.Context, ticket *models.MaintenanceTicket) {
}

func (stubNotificationsService) List(ctx context.Context, userID uuid.UUID, filters notifications.ListFilters) (*notifications.InboxPage, error) {
	return &notifications.InboxPage{Items: []notifications.NotificationSummary{}}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (stubNotificationsService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubDocumentsService struct{}

func (stubDocumentsService) RenderInvoice(ctx context.Context, actor documents.Actor, invoiceID uuid.UUID) (*documents.DocumentSummary, error) {
	panic("unimplemented")
}

func (stubDocumentsService) RenderOrder(ctx context.Context, actor documents.Actor, orderID uuid.UUID) (*documents.DocumentSummary, error) {
	return &documents.DocumentSummary{ID: uuid.New(), ReferenceID: orderID}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		prometheus.NewRegistry(),
		stubAuthService{},
		stubCatalogService{},
		stubOrdersService{},
		stubInvoicesService{},
		stubMaintenanceService{},
		stubNotificationsService{},
		stubDocumentsService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	room := "B-204"
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:     uuid.New(),
		Role:       role,
		RoomNumber: &room,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/grocery/items", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestLoginIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"ravi","password":"hunter22"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public login got %d", resp.Code)
	}
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestCatalogListAllowsResident(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/grocery/items", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleResident))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for resident catalog list got %d", resp.Code)
	}
}

func TestCatalogCreateRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"name":"Basmati Rice 5kg","category":"food","price":"42.50","unit":"pack","stock":20}`

	resident := httptest.NewRequest(http.MethodPost, "/api/v1/grocery/items", strings.NewReader(body))
	resident.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleResident))
	resident.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, resident)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for resident got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, "/api/v1/grocery/items", strings.NewReader(body))
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	admin.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDocumentRenderRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/documents/orders/" + uuid.NewString()

	resident := httptest.NewRequest(http.MethodPost, target, nil)
	resident.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleResident))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, resident)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for resident got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, target, nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestOrderTransitionRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/grocery/orders/" + uuid.NewString() + "/status"

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}
}

func TestNotificationsInboxScopedToCaller(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleResident))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for resident inbox got %d: %s", resp.Code, resp.Body.String())
	}
}
