package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lromero-dev/altiplano-backend/api/controllers"
	"github.com/lromero-dev/altiplano-backend/api/middleware"
	internalorders "github.com/lromero-dev/altiplano-backend/internal/orders"
	"github.com/lromero-dev/altiplano-backend/internal/payments"
	"github.com/lromero-dev/altiplano-backend/internal/pricing"
	"github.com/lromero-dev/altiplano-backend/pkg/config"
	"github.com/lromero-dev/altiplano-backend/pkg/db"
	"github.com/lromero-dev/altiplano-backend/pkg/logger"
	"github.com/lromero-dev/altiplano-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	pricingSvc pricing.Service,
	ordersSvc internalorders.Service,
	paymentsSvc payments.Service,
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/pricing", func(r chi.Router) {
			r.Post("/reprice", controllers.RepriceCart(pricingSvc, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/in-store", controllers.CreateInStoreOrder(ordersSvc, logg))
			r.Post("/online", controllers.CreateOnlineOrder(ordersSvc, logg))
			r.Route("/{orderId}", func(r chi.Router) {
				r.Post("/confirm", controllers.ConfirmOrder(ordersSvc, logg))
				r.Post("/cancel", controllers.CancelOrder(ordersSvc, logg))
				r.Patch("/", controllers.EditOrder(ordersSvc, logg))
				r.Put("/status", controllers.ChangeOrderStatus(ordersSvc, logg))
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/qr/callback", controllers.QRCallback(paymentsSvc, logg))
		})
	})

	return r
}
