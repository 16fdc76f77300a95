// README: HTTP router registration; the screen graph as routes.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TaggTeeM/taggteemflagg/internal/api"
	"github.com/TaggTeeM/taggteemflagg/internal/http/handlers"
	"github.com/TaggTeeM/taggteemflagg/internal/http/middleware"
	"github.com/TaggTeeM/taggteemflagg/internal/maps"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/flow"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/session"
)

type RouterDeps struct {
	API      *api.Client
	Sessions *session.Store
	Phones   session.PhoneStore
	Flows    *flow.Manager
	Places   *maps.PlacesService
	Locator  *flow.ReportedLocator
	Logger   *zap.Logger
}

// NewRouter wires the navigation graph. Everything past login sits behind
// the session gate; driver enrollment only needs a logged-in user, the
// driving screen additionally passes the driver gate.
func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger), middleware.Logging(deps.Logger))

	auth := handlers.NewAuthHandler(deps.API, deps.Sessions, deps.Phones, deps.Logger)
	profile := handlers.NewProfileHandler(deps.API, deps.Sessions)
	flows := handlers.NewFlowHandler(deps.Flows, deps.Places, deps.Locator)

	app := r.Group("/app")
	app.GET("/login", auth.Prefill)
	app.POST("/login", auth.Login)
	app.POST("/otp", auth.OTP)
	app.POST("/signup", auth.SignUp)
	app.POST("/logout", auth.Logout)

	gated := app.Group("", middleware.SessionGate(deps.Sessions))
	gated.GET("/profile", profile.Get)
	gated.GET("/bookings", profile.Bookings)
	gated.GET("/bookings/:id", profile.Booking)
	gated.POST("/driver/signup", profile.DriverSignup)
	gated.GET("/drive", middleware.DriverGate(), profile.Drive)

	gated.POST("/location", flows.ReportLocation)
	gated.POST("/flow", flows.Start)
	gated.GET("/flow", flows.State)
	gated.DELETE("/flow", flows.Abandon)
	gated.POST("/flow/target", flows.SetTarget)
	gated.POST("/flow/drag", flows.Drag)
	gated.POST("/flow/place", flows.Place)
	gated.POST("/flow/confirm", flows.Confirm)
	gated.GET("/flow/options", flows.Options)
	gated.POST("/flow/options", flows.ConfirmOptions)
	gated.POST("/flow/book", flows.Book)

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
