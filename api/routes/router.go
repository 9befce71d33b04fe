package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skillearn/skillearn-backend/api/controllers"
	"github.com/skillearn/skillearn-backend/api/middleware"
	"github.com/skillearn/skillearn-backend/internal/accounts"
	"github.com/skillearn/skillearn-backend/internal/adjustments"
	"github.com/skillearn/skillearn-backend/internal/ledger"
	"github.com/skillearn/skillearn-backend/internal/referrals"
	"github.com/skillearn/skillearn-backend/internal/requests"
	"github.com/skillearn/skillearn-backend/pkg/config"
	"github.com/skillearn/skillearn-backend/pkg/db"
	"github.com/skillearn/skillearn-backend/pkg/logger"
	pkgredis "github.com/skillearn/skillearn-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	accountsService accounts.Service,
	ledgerService ledger.Service,
	referralsService referrals.Service,
	requestsService requests.Service,
	adjustmentsService adjustments.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Identity(logg),
	)

	var (
		cachePinger      pkgredis.Pinger
		idempotencyStore pkgredis.IdempotencyStore
	)
	if redisClient != nil {
		cachePinger = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireUser(logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/balance", controllers.Balance(accountsService, logg))
			r.Get("/history", controllers.History(ledgerService, logg))
			r.Post("/deposits", controllers.SubmitDeposit(requestsService, logg))
			r.Post("/withdrawals", controllers.SubmitWithdrawal(requestsService, logg))
			r.Post("/task-completions", controllers.SubmitTaskCompletion(requestsService, logg))
		})

		r.Post("/referrals", controllers.LinkReferral(accountsService, referralsService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.RequireOperator(logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/requests", controllers.ListPendingRequests(requestsService, logg))
		r.Post("/requests/{requestId}/approve", controllers.ApproveRequest(requestsService, logg))
		r.Post("/requests/{requestId}/reject", controllers.RejectRequest(requestsService, logg))
		r.Post("/adjustments", controllers.Adjust(adjustmentsService, logg))
		r.Get("/accounts/{userId}/reconcile", controllers.ReconcileAccount(accountsService, ledgerService, logg))
	})

	return r
}
