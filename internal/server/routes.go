package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/middleware"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// SetupRoutes configures the routes for the application.
//
// The configured routes include:
//   - Health check, version and metrics endpoints (unprotected)
//   - Account endpoints under /api/users, partly public
//   - Product CRUD under /api/products (protected)
//   - The contact relay under /api/contactus (protected)
//   - Locally stored product images under /uploads
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(s.Config.CORS))
	r.Use(s.httpMetrics.Middleware())
	r.Use(middleware.RequestLogger())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.NotFound(w, constants.MsgResourceNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.MethodNotAllowed(w)
	})

	r.Get(constants.HealthPath, s.Handlers.HealthHandler.Health)
	r.Get(constants.VersionPath, s.Handlers.HealthHandler.Version)

	if s.Config.Metrics.Enabled {
		r.Handle(s.Config.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	if files, ok := s.images.(interface{ Handler() http.Handler }); ok {
		r.Handle(constants.UploadsPath+"/*", http.StripPrefix(constants.UploadsPath, files.Handler()))
	}

	requireUser := middleware.RequireUser(s.repos.Users, s.authProviders.JWTService, &s.Config.Cookie)

	r.Route(constants.UsersBasePath, func(r chi.Router) {
		r.Use(chimiddleware.NoCache)

		// Public account endpoints
		r.Post(constants.UserRegisterPath, s.Handlers.AuthHandler.Register)
		r.Post(constants.UserLoginPath, s.Handlers.AuthHandler.Login)
		r.Get(constants.UserLogoutPath, s.Handlers.AuthHandler.Logout)
		r.Get(constants.UserLoginStatusPath, s.Handlers.AuthHandler.LoginStatus)
		r.Post(constants.UserForgotPasswordPath, s.Handlers.AuthHandler.ForgotPassword)
		r.Put(constants.UserResetPasswordPath, s.Handlers.AuthHandler.ResetPassword)

		// Protected account endpoints
		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get(constants.UserProfilePath, s.Handlers.AuthHandler.GetUser)
			r.Patch(constants.UserUpdatePath, s.Handlers.AuthHandler.UpdateUser)
			r.Patch(constants.UserChangePasswordPath, s.Handlers.AuthHandler.ChangePassword)
		})
	})

	r.Route(constants.ProductsBasePath, func(r chi.Router) {
		r.Use(requireUser)
		r.Post("/", s.Handlers.ProductHandler.CreateProduct)
		r.Get("/", s.Handlers.ProductHandler.ListProducts)
		r.Get(constants.ProductDetailPath, s.Handlers.ProductHandler.GetProduct)
		r.Patch(constants.ProductDetailPath, s.Handlers.ProductHandler.UpdateProduct)
		r.Delete(constants.ProductDetailPath, s.Handlers.ProductHandler.DeleteProduct)
	})

	r.Route(constants.ContactBasePath, func(r chi.Router) {
		r.Use(requireUser)
		r.Post("/", s.Handlers.ContactHandler.SendContactEmail)
	})

	s.router = r
}

// GetRouter returns the configured router.
func (s *Server) GetRouter() chi.Router {
	return s.router
}
