package routes

import (
	"github.com/cheikhabdou2024/Dakar-cut/config"
	"github.com/cheikhabdou2024/Dakar-cut/controllers"
	"github.com/cheikhabdou2024/Dakar-cut/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies carries everything the router hands to controllers.
type Dependencies struct {
	Config      config.Config
	Logger      *zap.Logger
	Bookings    *services.BookingService
	Reviews     *services.ReviewService
	Directory   *services.Directory
	Dashboard   *services.DashboardService
	Checks      map[string]controllers.Check
	Gatherer    prometheus.Gatherer
	RateLimiter *RateLimiter
}

func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(config.Recovery(log))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Total-Count", "Retry-After"},
		AllowCredentials: true,
	}
	if origins := deps.Config.AllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	r.Use(config.PerformanceLogger(log))

	health := controllers.HealthController{Checks: deps.Checks}
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = NewRateLimiter(deps.Config.BookingRatePerSec, deps.Config.BookingRateBurst)
	}

	salonController := controllers.SalonController{Directory: deps.Directory}
	bookingController := controllers.BookingController{Bookings: deps.Bookings}
	reviewController := controllers.ReviewController{Reviews: deps.Reviews}
	dashboardController := controllers.DashboardController{Dashboard: deps.Dashboard, Location: deps.Config.Location()}

	api := r.Group("/api")
	{
		// Salon routes
		salons := api.Group("/salons")
		{
			salons.GET("", salonController.ListSalons)
			salons.GET("/:id", salonController.GetSalon)
			salons.GET("/:id/availability", bookingController.GetAvailability)
			salons.GET("/:id/appointments", bookingController.ListSalonAppointments)
			salons.POST("/:id/appointments", limiter.Middleware(), bookingController.CreateAppointment)
			salons.GET("/:id/dashboard", dashboardController.GetDashboardOverview)
		}

		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.GET("/:id", bookingController.GetAppointment)
			appointments.POST("/:id/cancel", bookingController.CancelAppointment)
			appointments.POST("/:id/complete", bookingController.CompleteAppointment)
			appointments.POST("/:id/reviews", reviewController.CreateReview)
		}
	}

	return r
}
