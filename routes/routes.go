package routes

import (
	"time"

	"anchorsite/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the handlers wired up in main.
type HandlerBundle struct {
	Wizard       *handlers.WizardHandler
	Availability *handlers.AvailabilityHandler
	Menu         *handlers.MenuHandler
	Reviews      *handlers.ReviewsHandler
}

// RegisterTableBookingRoutes registers the public availability/menu proxy
// endpoints consumed by the calendar and menu UI.
func RegisterTableBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/table-bookings")
	{
		api.GET("/availability", hb.Availability.GetAvailability)
		api.GET("/menu/sunday-lunch", hb.Menu.GetSundayLunchMenu)
	}
}

// RegisterReviewRoutes registers the Google review passthrough.
func RegisterReviewRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/api/reviews", hb.Reviews.GetReviews)
}

// RegisterHealthRoute registers the health snapshot endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterBookingRoutes(r, hb)
	RegisterTableBookingRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterHealthRoute(r)
}
