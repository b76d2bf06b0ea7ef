package routes

import (
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking wizard.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	booking := r.Group("/api/booking")
	{
		booking.POST("/session", hb.Wizard.StartSession)                 // Create a draft (optionally deep-link seeded)
		booking.GET("/session/:sessionID", hb.Wizard.GetSession)         // Current state
		booking.POST("/session/:sessionID/step", hb.Wizard.SubmitStep)   // Submit the current step
		booking.POST("/session/:sessionID/back", hb.Wizard.Back)         // Previous step
		booking.POST("/session/:sessionID/goto", hb.Wizard.GoToStep)     // Jump (confirm screen edit links)
		booking.POST("/session/:sessionID/confirm", hb.Wizard.Confirm)   // Submit to the management API
		booking.GET("/confirmation/:reference", hb.Wizard.Confirmation)  // One-shot snapshot for the confirmation page
	}
}
