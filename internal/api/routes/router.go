package routes

import (
	"net/http"

	"github.com/wanderlyst/backend/internal/api/handlers"
	"github.com/wanderlyst/backend/internal/api/middleware"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/providers"
	"github.com/wanderlyst/backend/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	userHandler *handlers.UserHandler

	tourHandler *handlers.TourHandler

	bookingHandler *handlers.BookingHandler

	reviewHandler *handlers.ReviewHandler

	queryHandler *handlers.QueryHandler

	tokens  providers.TokenProvider
	metrics *observability.Metrics
}

// NewRouter creates a new router

func NewRouter(

	userHandler *handlers.UserHandler,

	tourHandler *handlers.TourHandler,

	bookingHandler *handlers.BookingHandler,

	reviewHandler *handlers.ReviewHandler,

	queryHandler *handlers.QueryHandler,

	tokens providers.TokenProvider,
	metrics *observability.Metrics,

) *Router {

	return &Router{

		mux: http.NewServeMux(),

		userHandler: userHandler,

		tourHandler: tourHandler,

		bookingHandler: bookingHandler,

		reviewHandler: reviewHandler,

		queryHandler: queryHandler,

		tokens:  tokens,
		metrics: metrics,
	}

}

// authed wraps a handler so only logged-in principals reach it.
func (r *Router) authed(next http.HandlerFunc) http.HandlerFunc {
	return middleware.RequireAuth(r.tokens)(next)
}

// restricted wraps a handler so only logged-in principals with one of the
// listed roles reach it.
func (r *Router) restricted(next http.HandlerFunc, roles ...entities.Role) http.HandlerFunc {
	return middleware.RequireAuth(r.tokens)(middleware.RestrictTo(roles...)(next))
}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {

		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}

	})

	// Signup and session endpoints

	r.mux.HandleFunc("POST /api/users/signup/token", r.userHandler.RequestSignupToken)

	r.mux.HandleFunc("POST /api/users/signup/verify", r.userHandler.VerifySignupToken)

	r.mux.HandleFunc("POST /api/users/signup", r.userHandler.Signup)

	r.mux.HandleFunc("POST /api/users/login", r.userHandler.Login)

	// Profile endpoints

	r.mux.HandleFunc("GET /api/users/me", r.authed(r.userHandler.GetMe))

	r.mux.HandleFunc("PATCH /api/users/me", r.authed(r.userHandler.UpdateMe))

	r.mux.HandleFunc("GET /api/users/{id}", r.restricted(r.userHandler.GetUser, entities.RoleAdmin))

	r.mux.HandleFunc("DELETE /api/users/{id}", r.restricted(r.userHandler.DeleteUser, entities.RoleAdmin))

	// Tour endpoints

	r.mux.HandleFunc("GET /api/tours", r.tourHandler.GetAllTours)

	r.mux.HandleFunc("GET /api/tours/{id}", r.tourHandler.GetTour)

	r.mux.HandleFunc("POST /api/tours", r.restricted(r.tourHandler.PostTour, entities.RoleAdmin, entities.RoleGuide))

	r.mux.HandleFunc("PATCH /api/tours/{id}", r.restricted(r.tourHandler.UpdateTour, entities.RoleAdmin, entities.RoleGuide))

	r.mux.HandleFunc("DELETE /api/tours/{id}", r.restricted(r.tourHandler.DeleteTour, entities.RoleAdmin, entities.RoleGuide))

	r.mux.HandleFunc("POST /api/tours/{id}/guides", r.restricted(r.tourHandler.AddGuides, entities.RoleAdmin, entities.RoleGuide))

	r.mux.HandleFunc("DELETE /api/tours/{id}/guides", r.restricted(r.tourHandler.RemoveGuides, entities.RoleAdmin, entities.RoleGuide))

	// Booking endpoints

	r.mux.HandleFunc("POST /api/tours/{id}/bookings", r.authed(r.bookingHandler.BookTour))

	r.mux.HandleFunc("GET /api/bookings", r.restricted(r.bookingHandler.ListBookings, entities.RoleAdmin, entities.RoleGuide))

	r.mux.HandleFunc("GET /api/bookings/me", r.authed(r.bookingHandler.ListMyBookings))

	r.mux.HandleFunc("GET /api/bookings/completed", r.restricted(r.bookingHandler.ListCompletedBookings, entities.RoleAdmin, entities.RoleGuide))

	r.mux.HandleFunc("GET /api/bookings/incomplete", r.restricted(r.bookingHandler.ListIncompleteBookings, entities.RoleAdmin, entities.RoleGuide))

	r.mux.HandleFunc("GET /api/bookings/{id}", r.authed(r.bookingHandler.GetBooking))

	r.mux.HandleFunc("DELETE /api/bookings/{id}", r.authed(r.bookingHandler.CancelBooking))

	// Review endpoints

	r.mux.HandleFunc("GET /api/tours/{id}/reviews", r.reviewHandler.ListReviewsForTour)

	r.mux.HandleFunc("POST /api/tours/{id}/reviews", r.authed(r.reviewHandler.PostReview))

	r.mux.HandleFunc("GET /api/reviews", r.reviewHandler.ListReviews)

	r.mux.HandleFunc("GET /api/reviews/{id}", r.reviewHandler.GetReview)

	r.mux.HandleFunc("PATCH /api/reviews/{id}", r.authed(r.reviewHandler.UpdateReview))

	r.mux.HandleFunc("DELETE /api/reviews/{id}", r.authed(r.reviewHandler.DeleteReview))

	// Contact query endpoints

	r.mux.HandleFunc("POST /api/queries", r.queryHandler.PostQuery)

	r.mux.HandleFunc("GET /api/queries", r.restricted(r.queryHandler.GetAllQueries, entities.RoleAdmin))

	r.mux.HandleFunc("POST /api/queries/{id}/reply", r.restricted(r.queryHandler.ReplyQuery, entities.RoleAdmin))

	// Apply middleware in reverse order (last middleware wraps first)

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	handler = middleware.Compression(handler)

	// CORS wraps everything so preflight requests never hit the mux
	handler = middleware.CORSMiddleware(handler)

	return handler
}
