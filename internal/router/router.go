package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/almonsour13/mango-lens/internal/config"
	"github.com/almonsour13/mango-lens/internal/handler"
	"github.com/almonsour13/mango-lens/internal/middleware"
)

type Handlers struct {
	Auth  *handler.AuthHandler
	User  *handler.UserHandler
	Tree  *handler.TreeHandler
	Scan  *handler.ScanHandler
	Image *handler.ImageHandler
	Trash *handler.TrashHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Use(middleware.Timeout(cfg.RequestTimeout))
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.Post("/refresh", h.Auth.Refresh)
			auth.With(authMiddleware.RequireAuth).Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(authMiddleware.RequireAuth)

			protected.With(middleware.Timeout(cfg.RequestTimeout)).Group(func(fast chi.Router) {
				fast.Put("/users/profile", h.User.UpdateProfile)
				fast.Put("/users/password", h.User.UpdatePassword)

				fast.Post("/trees", h.Tree.Add)
				fast.Get("/trees", h.Tree.List)
				fast.Get("/trees/{treeCode}", h.Tree.Get)

				fast.Get("/images", h.Image.List)
				fast.Get("/images/{imageID}", h.Image.Get)

				fast.Post("/trash", h.Trash.Move)
				fast.Get("/trash", h.Trash.List)
				fast.Post("/trash/actions", h.Trash.Action)
				// Compatibility path kept for older clients that scope
				// trash under the user resource.
				fast.Post("/users/{userID}/trash", h.Trash.Move)
			})

			// Scan uploads carry two base64 images; cap the body instead of
			// relying on the default limits.
			protected.With(middleware.Timeout(cfg.RequestTimeout)).
				With(maxBody(cfg.MaxScanBodySize)).
				Post("/scans", h.Scan.Save)

			// Image binaries can be large; stream them with idle detection
			// instead of the buffering timeout handler.
			protected.With(middleware.StreamingTimeout(2*time.Minute, 30*time.Second)).Group(func(stream chi.Router) {
				stream.Get("/images/{imageID}/raw", h.Image.Raw)
				stream.Get("/images/{imageID}/analyzed", h.Image.Analyzed)
				stream.Get("/images/{imageID}/thumbnail", h.Image.Thumbnail)
			})

			protected.With(middleware.Timeout(cfg.RequestTimeout)).Group(func(admin chi.Router) {
				admin.Use(authMiddleware.RequireRoles("admin"))
				admin.Get("/admin/trees", h.Tree.ListAll)
				admin.Get("/admin/users", h.User.List)
			})
		})
	})

	return r
}

func maxBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
