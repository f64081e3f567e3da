package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jengzang/hcip-dashboard-go/internal/handler"
	"github.com/jengzang/hcip-dashboard-go/internal/middleware"
	"github.com/jengzang/hcip-dashboard-go/internal/service"
)

// Dependencies are the collaborators the router wires into handlers
type Dependencies struct {
	Source   service.DataSource
	Calendar service.Calendar
	Runs     service.RunLister // optional

	Tokens  *middleware.TokenManager
	Limiter *middleware.RateLimiter // optional
	Logger  zerolog.Logger
}

// SetupRouter builds the HTTP surface
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(deps.Logger.With().Str("component", "http").Logger()))

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	dataHandler := handler.NewDataHandler(service.NewDataService(deps.Source, deps.Runs), deps.Logger)
	filterHandler := handler.NewFilterHandler(service.NewFilterService(deps.Source))
	packageHandler := handler.NewPackageHandler(service.NewPackageService(deps.Source, deps.Calendar))
	siteHandler := handler.NewSiteHandler(service.NewSiteService(deps.Source))
	situationHandler := handler.NewSituationHandler(service.NewSituationService(deps.Source))
	riskHandler := handler.NewRiskHandler(service.NewRiskService(deps.Source, deps.Calendar), deps.Logger)

	api := r.Group("/api")
	api.GET("/health", dataHandler.Health)

	data := api.Group("/data")
	{
		refresh := []gin.HandlerFunc{}
		if deps.Limiter != nil {
			refresh = append(refresh, middleware.RateLimit(deps.Limiter))
		}
		if deps.Tokens != nil {
			refresh = append(refresh, middleware.RequireToken(deps.Tokens))
		}
		refresh = append(refresh, dataHandler.Refresh)

		data.POST("/refresh", refresh...)
		data.GET("/summary", dataHandler.GetSummary)
		data.GET("/sites", dataHandler.GetSites)
		data.GET("/tasks", dataHandler.GetTasks)
		data.GET("/snapshots", dataHandler.GetSnapshots)
		data.GET("/refresh-history", dataHandler.GetRefreshHistory)
	}

	filters := api.Group("/filters")
	{
		filters.GET("/packages", filterHandler.GetPackages)
		filters.GET("/districts", filterHandler.GetDistricts)
		filters.GET("/sites", filterHandler.GetSites)
		filters.GET("/statuses", filterHandler.GetStatuses)
	}

	packages := api.Group("/packages")
	{
		packages.GET("", packageHandler.ListPackages)
		packages.GET("/:package_name", packageHandler.GetPackage)
		packages.GET("/:package_name/districts", packageHandler.GetDistricts)
		packages.GET("/:package_name/sites", packageHandler.GetSites)
		packages.GET("/:package_name/delay-chart", packageHandler.GetDelayChart)
	}

	sites := api.Group("/sites")
	{
		sites.GET("/detail", siteHandler.GetDetail)
		sites.GET("/tasks", siteHandler.GetTasks)
		sites.GET("/ipc", siteHandler.GetIPC)
		sites.GET("/photos", siteHandler.GetPhotos)
		sites.GET("/disciplines", siteHandler.GetDisciplines)
	}

	situation := api.Group("/situation-room")
	{
		situation.GET("/kpis", situationHandler.GetKPIs)
		situation.GET("/delay-distribution", situationHandler.GetDelayDistribution)
		situation.GET("/status-breakdown", situationHandler.GetStatusBreakdown)
		situation.GET("/compliance", situationHandler.GetCompliance)
		situation.GET("/progress-by-package", situationHandler.GetProgressByPackage)
		situation.GET("/ipc-health", situationHandler.GetIPCHealth)
		situation.GET("/red-list", situationHandler.GetRedList)
		situation.GET("/planned-vs-actual", packageHandler.GetPlannedVsActual)
	}

	risk := api.Group("/risk")
	{
		risk.GET("/scores", riskHandler.GetScores)
		risk.GET("/distribution", riskHandler.GetDistribution)
		risk.GET("/recovery-candidates", riskHandler.GetRecoveryCandidates)
		risk.GET("/red-flags", riskHandler.GetRedFlags)
		risk.GET("/trends", riskHandler.GetTrends)
	}

	return r
}
