package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pasarlokal/pasarlokal-backend/api/controllers"
	"github.com/pasarlokal/pasarlokal-backend/api/middleware"
	"github.com/pasarlokal/pasarlokal-backend/internal/complaints"
	"github.com/pasarlokal/pasarlokal-backend/internal/dispatch"
	"github.com/pasarlokal/pasarlokal-backend/internal/fees"
	"github.com/pasarlokal/pasarlokal-backend/internal/ledger"
	"github.com/pasarlokal/pasarlokal-backend/internal/notifications"
	"github.com/pasarlokal/pasarlokal-backend/internal/orders"
	"github.com/pasarlokal/pasarlokal-backend/pkg/config"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
	"github.com/pasarlokal/pasarlokal-backend/pkg/logger"
	"github.com/pasarlokal/pasarlokal-backend/pkg/redis"
)

// Services bundles everything the HTTP surface needs.
type Services struct {
	Orders        orders.Service
	Dispatch      dispatch.Service
	Ledger        ledger.Service
	Complaints    complaints.Service
	Fees          fees.Service
	Notifications notifications.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	operatorOnly := middleware.RequireRoles(logg, enums.ActorRoleOperator, enums.ActorRolePlatform)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.RequireRoles(logg, enums.ActorRoleCustomer)).Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(svcs.Orders, logg))
			r.Post("/{orderID}/transition", controllers.TransitionOrder(svcs.Orders, logg))
			r.Get("/{orderID}/couriers", controllers.ListEligibleCouriers(svcs.Dispatch, logg))
			r.Post("/{orderID}/assign", controllers.AssignCourier(svcs.Dispatch, logg))
		})

		r.Route("/couriers", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.ActorRoleCourier))
			r.Put("/me", controllers.UpsertCourier(svcs.Dispatch, logg))
			r.Post("/me/status", controllers.SetCourierStatus(svcs.Dispatch, logg))
		})

		r.Route("/wallets", func(r chi.Router) {
			r.Get("/{actorID}", controllers.GetWallet(svcs.Ledger, logg))
			r.Post("/{actorID}/withdrawals", controllers.Withdraw(svcs.Ledger, logg))
		})
		r.With(operatorOnly).Post("/withdrawals/{withdrawalID}/settle", controllers.SettleWithdrawal(svcs.Ledger, logg))

		r.Route("/complaints", func(r chi.Router) {
			r.With(middleware.RequireRoles(logg, enums.ActorRoleCustomer)).Post("/", controllers.FileComplaint(svcs.Complaints, logg))
			r.Get("/{complaintID}", controllers.GetComplaint(svcs.Complaints, logg))
			r.With(operatorOnly).Post("/{complaintID}/resolve", controllers.ResolveComplaint(svcs.Complaints, logg))
			r.With(operatorOnly).Post("/{complaintID}/reject", controllers.RejectComplaint(svcs.Complaints, logg))
		})

		r.Route("/regions", func(r chi.Router) {
			r.Get("/", controllers.ListRegions(svcs.Fees, logg))
			r.Get("/{regionID}", controllers.GetRegion(svcs.Fees, logg))
		})
		r.Post("/fees/quote", controllers.QuoteFees(svcs.Fees, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})
	})

	return r
}
