package middleware

import (
	"net/http"
	"warehub/config"
	"warehub/infras/otel"
	"warehub/internal/domains/availability/service"
	"warehub/shared/constant"

	"github.com/rs/zerolog/log"
)

// Reconcile runs an availability sweep before the wrapped handler.
type Reconcile interface {
	Gate(next http.Handler) http.Handler
}

type reconcileImpl struct {
	reconciler service.Reconciler
	config     *config.Config
	otel       otel.Otel
}

func NewReconcileMiddleware(reconciler service.Reconciler, config *config.Config, otel otel.Otel) Reconcile {
	return &reconcileImpl{
		reconciler: reconciler,
		config:     config,
		otel:       otel,
	}
}

// Gate never fails the request. Sweep errors are logged and the handler runs anyway.
func (m *reconcileImpl) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.config.Booking.Reconciler.OnListing {
			next.ServeHTTP(w, r)

			return
		}

		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "reconcile.middleware")

		report, err := m.reconciler.Sweep(ctx)
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Int("completed", report.Completed).Msg("availability sweep failed")
		}

		scope.End()

		next.ServeHTTP(w, r)
	})
}
