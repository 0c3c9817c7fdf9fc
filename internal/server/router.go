package server

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nuvoryx/drive/internal/archive"
	"github.com/nuvoryx/drive/internal/auth"
	"github.com/nuvoryx/drive/internal/cleanup"
	"github.com/nuvoryx/drive/internal/config"
	"github.com/nuvoryx/drive/internal/file"
	"github.com/nuvoryx/drive/internal/folder"
	"github.com/nuvoryx/drive/internal/metrics"
	"github.com/nuvoryx/drive/internal/notification"
	"github.com/nuvoryx/drive/internal/stats"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config        config.Config
	DB            *pgxpool.Pool
	AuthService   *auth.Service
	FolderService *folder.Service
	FileService   *file.Service
	FileRepo      *file.Repository
	StatsService  *stats.Service
	Packer        *archive.Packer
	Coordinator   *cleanup.Coordinator
	Notifications *notification.Repository
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.MaxMultipartMemory = deps.Config.Server.MaxUploadMB << 20

	registerHealthRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	api := router.Group("/v1")
	auth.RegisterRoutes(api, deps.AuthService)

	// Listing works for anonymous callers; single-item delete, folder
	// archive, and direct download are deliberately unaudited.
	open := api.Group("/")
	open.Use(auth.Optional(deps.AuthService))
	registerBrowseRoutes(open, browseDeps{
		folders: deps.FolderService,
		files:   deps.FileRepo,
		stats:   deps.StatsService,
	})
	file.RegisterOpenRoutes(open, deps.FileService)
	archive.RegisterOpenRoutes(open, deps.Packer)
	cleanup.RegisterOpenRoutes(open, deps.Coordinator)

	protected := api.Group("/")
	protected.Use(auth.Required(deps.AuthService))
	auth.RegisterAccountRoutes(protected, deps.AuthService)
	folder.RegisterRoutes(protected, deps.FolderService)
	file.RegisterRoutes(protected, deps.FileService)
	archive.RegisterRoutes(protected, deps.Packer)
	cleanup.RegisterRoutes(protected, deps.Coordinator)
	notification.RegisterRoutes(protected, deps.Notifications)

	return router
}
