package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"stay-booking/controllers"
	"stay-booking/middleware"
	"stay-booking/utils"
)

// Controllers groups the handlers mounted under /api.
type Controllers struct {
	Experiences  *controllers.ExperienceController
	Wishlist     *controllers.WishlistController
	Reservations *controllers.ReservationController
	Booking      *controllers.BookingController
	Auth         *controllers.AuthController
	Profile      *controllers.ProfileController
	OTP          *controllers.OTPController
}

type Options struct {
	CorsOrigins []string
	Logger      *zap.Logger

	// Monitor is the jobs dashboard. It is mounted at MonitorPath behind basic auth,
	// and only when MonitorAccounts is not empty.
	Monitor         http.Handler
	MonitorPath     string
	MonitorAccounts gin.Accounts
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

func SetupRouter(ctl Controllers, authn middleware.Authenticator, opts Options) *gin.Engine {
	controllers.RegisterValidators()

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			log.Error("panic recovered", zap.Any("panic", recovered), zap.String("request_id", middleware.GetRequestID(c)))
			utils.JSONError(c, http.StatusInternalServerError, "error.internal", "internal error")
		}),
		middleware.Metrics(),
		cors.New(corsConfig(opts.CorsOrigins)),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.Monitor != nil && len(opts.MonitorAccounts) > 0 {
		path := "/" + strings.Trim(opts.MonitorPath, "/")
		r.Any(path+"/*any", gin.BasicAuth(opts.MonitorAccounts), gin.WrapH(opts.Monitor))
	}

	requireAuth := middleware.RequireAuth(authn)

	api := r.Group("/api", middleware.OptionalAuth(authn))
	{
		experiences := api.Group("/experiences")
		{
			experiences.GET("", ctl.Experiences.List)

			// static segments before /:id
			experiences.GET("/search", ctl.Experiences.SearchQuery)
			experiences.POST("/search", ctl.Experiences.Search)
			experiences.GET("/category/:category", ctl.Experiences.ListByCategory)
			experiences.GET("/:id", ctl.Experiences.Get)
		}

		// anonymous reads get an empty list; toggles need a session
		wishlist := api.Group("/wishlist")
		{
			wishlist.GET("", ctl.Wishlist.Get)
			wishlist.GET("/stream", requireAuth, ctl.Wishlist.Stream)
			wishlist.POST("/:experienceId/toggle", requireAuth, ctl.Wishlist.Toggle)
		}

		reservations := api.Group("/reservations", requireAuth)
		{
			reservations.GET("", ctl.Reservations.List)
			reservations.GET("/upcoming", ctl.Reservations.Upcoming)
			reservations.GET("/:id", ctl.Reservations.Get)
			reservations.GET("/:id/confirmation.pdf", ctl.Reservations.Confirmation)
			reservations.PATCH("/:id/status", ctl.Reservations.UpdateStatus)
			reservations.POST("/:id/cancel", ctl.Reservations.Cancel)
		}

		bookingRoutes := api.Group("/booking")
		{
			bookingRoutes.GET("/options/dates", ctl.Booking.DateOptions)
			bookingRoutes.GET("/options/rooms", ctl.Booking.RoomOptions)

			drafts := bookingRoutes.Group("/drafts", requireAuth)
			{
				drafts.POST("", ctl.Booking.Start)
				drafts.GET("/:id", ctl.Booking.Get)
				drafts.PUT("/:id/date", ctl.Booking.SelectDate)
				drafts.PUT("/:id/room", ctl.Booking.SelectRoom)
				drafts.POST("/:id/revise", ctl.Booking.Revise)
				drafts.POST("/:id/confirm", ctl.Booking.Confirm)
			}
		}

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", ctl.Auth.SignUp)
			authRoutes.POST("/signin", ctl.Auth.SignIn)
			authRoutes.POST("/signout", requireAuth, ctl.Auth.SignOut)
			authRoutes.GET("/session", requireAuth, ctl.Auth.Session)
			authRoutes.GET("/oauth/:provider", ctl.Auth.OAuthURL)
			authRoutes.GET("/callback/:provider", ctl.Auth.OAuthCallback)
			authRoutes.POST("/callback/:provider", ctl.Auth.OAuthCallback)
			authRoutes.POST("/otp/request", ctl.OTP.Request)
			authRoutes.POST("/otp/verify", ctl.OTP.Verify)
		}

		api.GET("/users/exists", requireAuth, ctl.Auth.UserExists)

		profile := api.Group("/profile", requireAuth)
		{
			profile.GET("", ctl.Profile.Get)
			profile.PUT("", ctl.Profile.Update)
		}
	}

	return r
}
