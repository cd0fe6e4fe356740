// Package mockgateway is an in-memory reference backend for the storefront
// client. It speaks the same {code, message, data} envelope as the real
// gateway and recomputes cart totals server-side, so the client's
// reconciliation paths can be exercised without any remote dependency.
package mockgateway

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

// NewRouter builds the HTTP handler for the storefront contract.
func NewRouter(state *State, logg *logger.Logger) http.Handler {
	h := NewHandlers(state, logg)

	r := chi.NewRouter()
	r.Use(
		recoverer(logg),
		requestLogging(logg),
	)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeOK(r.Context(), logg, w, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(requireBearer(logg))

		r.Route("/api/carts", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/add", h.AddItem)
			r.Post("/apply-coupon", h.ApplyCoupon)
		})
		r.Route("/api/cart-items", func(r chi.Router) {
			r.Put("/{lineID}", h.UpdateItemQuantity)
			r.Delete("/{lineID}", h.RemoveItem)
		})
		r.Route("/api/wishlists", func(r chi.Router) {
			r.Get("/", h.GetWishlist)
			r.Post("/add/{productID}", h.AddWishlistProduct)
			r.Delete("/remove/{productID}", h.RemoveWishlistProduct)
		})
	})

	return r
}

// requireBearer accepts any non-empty bearer token; the mock has no user
// accounts, it only needs to exercise the client's auth branch.
func requireBearer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if !strings.HasPrefix(header, "Bearer ") || token == "" {
				writeEnvelope(r.Context(), logg, w, http.StatusUnauthorized,
					types.EnvelopeUnauthenticated, "authentication required", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{"panic": rec})
						logg.Error(ctx, "panic.recovered", nil)
					}
					writeEnvelope(ctx, logg, w, http.StatusInternalServerError,
						types.EnvelopeInternal, "internal error", nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"method": r.Method,
					"path":   r.URL.Path,
				})
			}

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))
			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"status":      rec.status,
					"duration_ms": time.Since(start).Milliseconds(),
				})
				logg.Info(ctx, "request.complete")
			}
		})
	}
}
