package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/campusfind/lostfound/internal/auth"
	"github.com/campusfind/lostfound/internal/handlers"
	"github.com/campusfind/lostfound/internal/middleware"
	"github.com/campusfind/lostfound/internal/services"
	"github.com/campusfind/lostfound/internal/storage"
	"github.com/campusfind/lostfound/pkg/response"
)

// Dependencies bundles everything the router needs.
type Dependencies struct {
	DB       *gorm.DB
	JWT      *iauth.JWTService
	Denylist iauth.Denylist
	Files    *storage.FileStore
}

// NewRouter wires middleware, services, and handlers into a gin engine.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	authService, err := services.NewAuthService(deps.DB, deps.JWT, deps.Denylist)
	if err != nil {
		return nil, err
	}
	itemService, err := services.NewItemService(deps.DB, deps.Files)
	if err != nil {
		return nil, err
	}
	claimService, err := services.NewClaimService(deps.DB, deps.Files)
	if err != nil {
		return nil, err
	}
	pickupService, err := services.NewPickupService(deps.DB)
	if err != nil {
		return nil, err
	}
	proofService, err := services.NewProofService(deps.DB, deps.Files)
	if err != nil {
		return nil, err
	}
	catalogService, err := services.NewCatalogService(deps.DB)
	if err != nil {
		return nil, err
	}
	notificationService, err := services.NewNotificationService(deps.DB)
	if err != nil {
		return nil, err
	}
	activityService, err := services.NewActivityService(deps.DB)
	if err != nil {
		return nil, err
	}

	authHandler := handlers.NewAuthHandler(authService)
	itemHandler := handlers.NewItemHandler(itemService)
	claimHandler := handlers.NewClaimHandler(claimService)
	pickupHandler := handlers.NewPickupHandler(pickupService)
	proofHandler := handlers.NewProofHandler(proofService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	activityHandler := handlers.NewActivityHandler(activityService)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS())
	router.NoRoute(middleware.NotFoundHandler)

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static(storage.URLPrefix, deps.Files.Root())

	apiGroup := router.Group("/api")
	apiGroup.POST("/register", authHandler.Register)
	apiGroup.POST("/login", authHandler.Login)

	authed := apiGroup.Group("")
	authed.Use(middleware.Auth(deps.JWT, deps.Denylist))

	authed.POST("/logout", authHandler.Logout)

	authed.GET("/barang", itemHandler.List)
	authed.POST("/barang", itemHandler.Create)
	authed.GET("/barang/:id", itemHandler.Get)
	authed.PUT("/barang/:id", itemHandler.Update)
	authed.DELETE("/barang/:id", itemHandler.Delete)
	authed.POST("/barang/:id/verifikasi", middleware.RequireAdmin(), itemHandler.Verify)

	authed.GET("/klaim-penemuan", claimHandler.List)
	authed.POST("/klaim-penemuan", claimHandler.Create)
	authed.PATCH("/klaim-penemuan/:id/status", claimHandler.UpdateStatus)

	authed.GET("/pengambilan", pickupHandler.List)
	authed.POST("/pengambilan", pickupHandler.Create)
	authed.PATCH("/pengambilan/:id/status", middleware.RequireAdmin(), pickupHandler.UpdateStatus)

	authed.POST("/bukti", middleware.RequireAdmin(), proofHandler.Create)

	authed.GET("/notifikasi", notificationHandler.List)
	authed.PATCH("/notifikasi/:id/read", notificationHandler.MarkRead)
	authed.POST("/notifikasi/read-all", notificationHandler.MarkAllRead)

	authed.GET("/kategori", catalogHandler.ListCategories)
	authed.GET("/kategori/:id", catalogHandler.GetCategory)
	authed.POST("/kategori", middleware.RequireAdmin(), catalogHandler.CreateCategory)
	authed.PUT("/kategori/:id", middleware.RequireAdmin(), catalogHandler.UpdateCategory)
	authed.DELETE("/kategori/:id", middleware.RequireAdmin(), catalogHandler.DeleteCategory)

	authed.GET("/lokasi", catalogHandler.ListLocations)
	authed.GET("/lokasi/:id", catalogHandler.GetLocation)
	authed.POST("/lokasi", middleware.RequireAdmin(), catalogHandler.CreateLocation)
	authed.PUT("/lokasi/:id", middleware.RequireAdmin(), catalogHandler.UpdateLocation)
	authed.DELETE("/lokasi/:id", middleware.RequireAdmin(), catalogHandler.DeleteLocation)

	authed.GET("/activity-logs", middleware.RequireAdmin(), activityHandler.List)

	return router, nil
}
