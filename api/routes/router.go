package routes

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakani-app/sakani-backend/api/controllers"
	"github.com/sakani-app/sakani-backend/api/middleware"
	"github.com/sakani-app/sakani-backend/internal/auth"
	"github.com/sakani-app/sakani-backend/internal/catalog"
	"github.com/sakani-app/sakani-backend/internal/documents"
	"github.com/sakani-app/sakani-backend/internal/invoices"
	"github.com/sakani-app/sakani-backend/internal/maintenance"
	"github.com/sakani-app/sakani-backend/internal/notifications"
	"github.com/sakani-app/sakani-backend/internal/orders"
	"github.com/sakani-app/sakani-backend/pkg/config"
	"github.com/sakani-app/sakani-backend/pkg/db"
	"github.com/sakani-app/sakani-backend/pkg/logger"
	"github.com/sakani-app/sakani-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	authService auth.Service,
	catalogService catalog.Service,
	ordersService orders.Service,
	invoicesService invoices.Service,
	maintenanceService maintenance.Service,
	notificationsService notifications.Service,
	documentsService documents.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	if dir := cfg.Documents.OutputDir; dir != "" {
		prefix := "/" + filepath.ToSlash(dir)
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(dir))))
	}

	r.Post("/api/v1/auth/login", controllers.AuthLogin(authService, logg))

	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		idemStore = redisClient
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		admin := middleware.RequireRole("admin", logg)

		r.Route("/auth", func(r chi.Router) {
			r.With(admin).Post("/register", controllers.AuthRegister(authService, logg))
			r.Get("/me", controllers.AuthMe(authService, logg))
			r.Put("/me/push-token", controllers.AuthUpdatePushToken(authService, logg))
			r.With(admin).Get("/users", controllers.AuthListUsers(authService, logg))
			r.With(admin).Delete("/users/{userId}", controllers.AuthDeactivateUser(authService, logg))
		})

		r.Route("/grocery", func(r chi.Router) {
			r.Route("/items", func(r chi.Router) {
				r.Get("/", controllers.CatalogList(catalogService, logg))
				r.Get("/{itemId}", controllers.CatalogGet(catalogService, logg))
				r.With(admin).Post("/", controllers.CatalogCreate(catalogService, logg))
				r.With(admin).Patch("/{itemId}", controllers.CatalogUpdate(catalogService, logg))
				r.With(admin).Delete("/{itemId}", controllers.CatalogDelete(catalogService, logg))
				r.With(admin).Post("/{itemId}/stock", controllers.CatalogAdjustStock(catalogService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderCreate(ordersService, logg))
				r.Get("/", controllers.OrderList(ordersService, logg))
				r.Get("/{orderId}", controllers.OrderGet(ordersService, logg))
				r.With(admin).Post("/{orderId}/status", controllers.OrderTransition(ordersService, logg))
				r.With(admin).Post("/{orderId}/payment-status", controllers.OrderMarkPaid(ordersService, logg))
			})
		})

		r.Route("/invoices", func(r chi.Router) {
			r.With(admin).Post("/", controllers.InvoiceCreate(invoicesService, logg))
			r.Get("/", controllers.InvoiceList(invoicesService, logg))
			r.With(admin).Get("/overdue", controllers.InvoiceListOverdue(invoicesService, logg))
			r.Get("/{invoiceId}", controllers.InvoiceGet(invoicesService, logg))
			r.With(admin).Post("/{invoiceId}/status", controllers.InvoiceMarkPaid(invoicesService, logg))
			r.With(admin).Post("/{invoiceId}/cancel", controllers.InvoiceCancel(invoicesService, logg))
			r.Post("/{invoiceId}/notes", controllers.InvoiceAddNote(invoicesService, logg))
			r.Post("/{invoiceId}/pdf", controllers.InvoiceRenderPDF(documentsService, logg))
		})

		r.Route("/maintenance", func(r chi.Router) {
			r.Post("/", controllers.TicketCreate(maintenanceService, logg))
			r.Get("/", controllers.TicketList(maintenanceService, logg))
			r.Get("/{ticketId}", controllers.TicketGet(maintenanceService, logg))
			r.With(admin).Post("/{ticketId}/status", controllers.TicketUpdateStatus(maintenanceService, logg))
			r.With(admin).Post("/{ticketId}/assign", controllers.TicketAssign(maintenanceService, logg))
			r.Post("/{ticketId}/notes", controllers.TicketAddNote(maintenanceService, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(notificationsService, logg))
			r.Get("/unread-count", controllers.NotificationUnreadCount(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.NotificationMarkRead(notificationsService, logg))
			r.Post("/read-all", controllers.NotificationMarkAllRead(notificationsService, logg))
		})

		r.Route("/documents", func(r chi.Router) {
			r.With(admin).Post("/orders/{orderId}", controllers.DocumentRenderOrder(documentsService, logg))
		})
	})

	return r
}
