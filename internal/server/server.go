package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/homestead/internal/audit"
	auditdomain "github.com/smallbiznis/homestead/internal/audit/domain"
	"github.com/smallbiznis/homestead/internal/auth"
	authdomain "github.com/smallbiznis/homestead/internal/auth/domain"
	"github.com/smallbiznis/homestead/internal/authorization"
	"github.com/smallbiznis/homestead/internal/catalog"
	catalogdomain "github.com/smallbiznis/homestead/internal/catalog/domain"
	"github.com/smallbiznis/homestead/internal/config"
	"github.com/smallbiznis/homestead/internal/configuration"
	configurationdomain "github.com/smallbiznis/homestead/internal/configuration/domain"
	"github.com/smallbiznis/homestead/internal/document"
	documentdomain "github.com/smallbiznis/homestead/internal/document/domain"
	"github.com/smallbiznis/homestead/internal/gallery"
	gallerydomain "github.com/smallbiznis/homestead/internal/gallery/domain"
	"github.com/smallbiznis/homestead/internal/lead"
	leaddomain "github.com/smallbiznis/homestead/internal/lead/domain"
	"github.com/smallbiznis/homestead/internal/lot"
	lotdomain "github.com/smallbiznis/homestead/internal/lot/domain"
	"github.com/smallbiznis/homestead/internal/media"
	mediadomain "github.com/smallbiznis/homestead/internal/media/domain"
	"github.com/smallbiznis/homestead/internal/observability"
	obsmiddleware "github.com/smallbiznis/homestead/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/homestead/internal/observability/metrics"
	obstracing "github.com/smallbiznis/homestead/internal/observability/tracing"
	"github.com/smallbiznis/homestead/internal/plan"
	plandomain "github.com/smallbiznis/homestead/internal/plan/domain"
	"github.com/smallbiznis/homestead/internal/property"
	propertydomain "github.com/smallbiznis/homestead/internal/property/domain"
	"github.com/smallbiznis/homestead/internal/providers"
	"github.com/smallbiznis/homestead/internal/ratelimit"
	"github.com/smallbiznis/homestead/internal/selectionbook"
	selectionbookdomain "github.com/smallbiznis/homestead/internal/selectionbook/domain"
	"github.com/smallbiznis/homestead/internal/testimonial"
	testimonialdomain "github.com/smallbiznis/homestead/internal/testimonial/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var domainModules = fx.Options(
	providers.Module,
	authorization.Module,
	audit.Module,
	auth.Module,
	ratelimit.Module,
	plan.Module,
	property.Module,
	lot.Module,
	gallery.Module,
	testimonial.Module,
	lead.Module,
	catalog.Module,
	configuration.Module,
	selectionbook.Module,
	media.Module,
	document.Module,
)

// Module serves the public API, the admin API and the SPA.
var Module = fx.Module("http.server",
	domainModules,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterPublicRoutes()
		s.RegisterAdminRoutes()
		s.RegisterFallback()
	}),
	fx.Invoke(run),
)

// PublicModule serves only the anonymous site API.
var PublicModule = fx.Module("http.public",
	domainModules,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterPublicRoutes()
	}),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if len(cfg.CORS.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-Id"},
			ExposeHeaders:    []string{"Content-Disposition", "Retry-After", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
		QuietRoutes:     []string{"/health", "/metrics"},
	}))
	r.Use(obstracing.GinMiddleware(obsCfg.ServiceName))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger

	verifier authdomain.Verifier
	authzSvc authorization.Service
	auditSvc auditdomain.Service
	limiter  ratelimit.SubmissionGuard

	planSvc          plandomain.Service
	propertySvc      propertydomain.Service
	lotSvc           lotdomain.Service
	gallerySvc       gallerydomain.Service
	testimonialSvc   testimonialdomain.Service
	leadSvc          leaddomain.Service
	catalogSvc       catalogdomain.Service
	configurationSvc configurationdomain.Service
	selectionBookSvc selectionbookdomain.Service
	mediaSvc         mediadomain.Service
	documentSvc      documentdomain.Service
}

type ServerParams struct {
	fx.In

	Gin *gin.Engine
	Cfg config.Config
	Log *zap.Logger

	Verifier authdomain.Verifier
	AuthzSvc authorization.Service
	AuditSvc auditdomain.Service      `optional:"true"`
	Limiter  ratelimit.SubmissionGuard `optional:"true"`

	PlanSvc          plandomain.Service
	PropertySvc      propertydomain.Service
	LotSvc           lotdomain.Service
	GallerySvc       gallerydomain.Service
	TestimonialSvc   testimonialdomain.Service
	LeadSvc          leaddomain.Service
	CatalogSvc       catalogdomain.Service
	ConfigurationSvc configurationdomain.Service
	SelectionBookSvc selectionbookdomain.Service
	MediaSvc         mediadomain.Service
	DocumentSvc      documentdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:           p.Gin,
		cfg:              p.Cfg,
		log:              p.Log.Named("http.server"),
		verifier:         p.Verifier,
		authzSvc:         p.AuthzSvc,
		auditSvc:         p.AuditSvc,
		limiter:          p.Limiter,
		planSvc:          p.PlanSvc,
		propertySvc:      p.PropertySvc,
		lotSvc:           p.LotSvc,
		gallerySvc:       p.GallerySvc,
		testimonialSvc:   p.TestimonialSvc,
		leadSvc:          p.LeadSvc,
		catalogSvc:       p.CatalogSvc,
		configurationSvc: p.ConfigurationSvc,
		selectionBookSvc: p.SelectionBookSvc,
		mediaSvc:         p.MediaSvc,
		documentSvc:      p.DocumentSvc,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterPublicRoutes() {
	api := s.engine.Group("/api")

	// -------- Customization --------
	api.GET("/customization-options", s.GetPublicCatalog)
	api.POST("/configurations", s.SubmissionRateLimit(endpointConfigurations), s.SubmitConfiguration)

	// -------- Contact --------
	api.POST("/contact", s.SubmissionRateLimit(endpointContact), s.SubmitContact)

	// -------- Plans --------
	api.GET("/plans", s.ListPublishedPlans)
	api.GET("/plans/:id", s.GetPublishedPlan)
	api.GET("/plans/:id/brochure", s.DownloadPlanBrochure)

	// -------- Available homes --------
	api.GET("/properties", s.ListPublishedProperties)
	api.GET("/properties/:id", s.GetPublishedProperty)
	api.GET("/properties/:id/brochure", s.DownloadPropertyBrochure)
	api.GET("/property-flyer", s.DownloadPropertyFlyer)

	// -------- Lots --------
	api.GET("/lots", s.ListPublishedLots)
	api.GET("/lots/:id", s.GetPublishedLot)

	// -------- Gallery / testimonials --------
	api.GET("/gallery", s.ListPublishedGallery)
	api.GET("/testimonials", s.ListPublishedTestimonials)
}

func (s *Server) RegisterAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.AuthRequired())

	// -------- Customization catalog --------
	admin.GET("/customization-options", s.authorize(authorization.ObjectCatalog, authorization.ActionView), s.ListAdminCatalog)
	admin.POST("/customization-options", s.authorize(authorization.ObjectCatalog, authorization.ActionCreate), s.CreateOption)
	admin.PUT("/customization-options/:id", s.authorize(authorization.ObjectCatalog, authorization.ActionUpdate), s.UpdateOption)
	admin.DELETE("/customization-options/:id", s.authorize(authorization.ObjectCatalog, authorization.ActionDelete), s.DeleteOption)

	admin.GET("/customization-categories", s.authorize(authorization.ObjectCatalog, authorization.ActionView), s.ListCategories)
	admin.POST("/customization-categories", s.authorize(authorization.ObjectCatalog, authorization.ActionCreate), s.CreateCategory)
	admin.POST("/customization-categories/reorder", s.authorize(authorization.ObjectCatalog, authorization.ActionUpdate), s.ReorderCategories)
	admin.PATCH("/customization-categories/:id", s.authorize(authorization.ObjectCatalog, authorization.ActionUpdate), s.UpdateCategory)
	admin.DELETE("/customization-categories/:id", s.authorize(authorization.ObjectCatalog, authorization.ActionDelete), s.DeleteCategory)

	// -------- Customer configurations --------
	admin.GET("/configurations", s.authorize(authorization.ObjectConfiguration, authorization.ActionView), s.ListConfigurations)
	admin.POST("/configurations", s.authorize(authorization.ObjectConfiguration, authorization.ActionCreate), s.CreateConfiguration)
	admin.GET("/configurations/:id", s.authorize(authorization.ObjectConfiguration, authorization.ActionView), s.GetConfiguration)
	admin.PUT("/configurations/:id", s.authorize(authorization.ObjectConfiguration, authorization.ActionUpdate), s.UpdateConfigurationStatus)
	admin.DELETE("/configurations/:id", s.authorize(authorization.ObjectConfiguration, authorization.ActionDelete), s.DeleteConfiguration)

	// -------- Selection books --------
	admin.GET("/selection-books", s.authorize(authorization.ObjectSelectionBook, authorization.ActionView), s.ListSelectionBooks)
	admin.POST("/selection-books", s.authorize(authorization.ObjectSelectionBook, authorization.ActionCreate), s.CreateSelectionBook)
	admin.GET("/selection-books/:id", s.authorize(authorization.ObjectSelectionBook, authorization.ActionView), s.GetSelectionBook)
	admin.PUT("/selection-books/:id", s.authorize(authorization.ObjectSelectionBook, authorization.ActionUpdate), s.UpdateSelectionBook)
	admin.DELETE("/selection-books/:id", s.authorize(authorization.ObjectSelectionBook, authorization.ActionDelete), s.DeleteSelectionBook)
	admin.GET("/selection-books/:id/pdf", s.authorize(authorization.ObjectSelectionBook, authorization.ActionView), s.DownloadSelectionBook)

	// -------- Plans --------
	admin.GET("/plans", s.authorize(authorization.ObjectPlan, authorization.ActionView), s.ListPlans)
	admin.POST("/plans", s.authorize(authorization.ObjectPlan, authorization.ActionCreate), s.CreatePlan)
	admin.GET("/plans/:id", s.authorize(authorization.ObjectPlan, authorization.ActionView), s.GetPlan)
	admin.PUT("/plans/:id", s.authorize(authorization.ObjectPlan, authorization.ActionUpdate), s.UpdatePlan)
	admin.DELETE("/plans/:id", s.authorize(authorization.ObjectPlan, authorization.ActionDelete), s.DeletePlan)

	// -------- Properties --------
	admin.GET("/properties", s.authorize(authorization.ObjectProperty, authorization.ActionView), s.ListProperties)
	admin.POST("/properties", s.authorize(authorization.ObjectProperty, authorization.ActionCreate), s.CreateProperty)
	admin.GET("/properties/:id", s.authorize(authorization.ObjectProperty, authorization.ActionView), s.GetProperty)
	admin.PUT("/properties/:id", s.authorize(authorization.ObjectProperty, authorization.ActionUpdate), s.UpdateProperty)
	admin.DELETE("/properties/:id", s.authorize(authorization.ObjectProperty, authorization.ActionDelete), s.DeleteProperty)

	// -------- Lots --------
	admin.GET("/lots", s.authorize(authorization.ObjectLot, authorization.ActionView), s.ListLots)
	admin.POST("/lots", s.authorize(authorization.ObjectLot, authorization.ActionCreate), s.CreateLot)
	admin.GET("/lots/:id", s.authorize(authorization.ObjectLot, authorization.ActionView), s.GetLot)
	admin.PUT("/lots/:id", s.authorize(authorization.ObjectLot, authorization.ActionUpdate), s.UpdateLot)
	admin.DELETE("/lots/:id", s.authorize(authorization.ObjectLot, authorization.ActionDelete), s.DeleteLot)

	// -------- Gallery --------
	admin.GET("/gallery", s.authorize(authorization.ObjectGallery, authorization.ActionView), s.ListGallery)
	admin.POST("/gallery", s.authorize(authorization.ObjectGallery, authorization.ActionCreate), s.CreateGalleryItem)
	admin.GET("/gallery/:id", s.authorize(authorization.ObjectGallery, authorization.ActionView), s.GetGalleryItem)
	admin.PUT("/gallery/:id", s.authorize(authorization.ObjectGallery, authorization.ActionUpdate), s.UpdateGalleryItem)
	admin.DELETE("/gallery/:id", s.authorize(authorization.ObjectGallery, authorization.ActionDelete), s.DeleteGalleryItem)

	// -------- Testimonials --------
	admin.GET("/testimonials", s.authorize(authorization.ObjectTestimonial, authorization.ActionView), s.ListTestimonials)
	admin.POST("/testimonials", s.authorize(authorization.ObjectTestimonial, authorization.ActionCreate), s.CreateTestimonial)
	admin.GET("/testimonials/:id", s.authorize(authorization.ObjectTestimonial, authorization.ActionView), s.GetTestimonial)
	admin.PUT("/testimonials/:id", s.authorize(authorization.ObjectTestimonial, authorization.ActionUpdate), s.UpdateTestimonial)
	admin.DELETE("/testimonials/:id", s.authorize(authorization.ObjectTestimonial, authorization.ActionDelete), s.DeleteTestimonial)

	// -------- Leads --------
	admin.GET("/leads", s.authorize(authorization.ObjectLead, authorization.ActionView), s.ListLeads)
	admin.PUT("/leads/:id", s.authorize(authorization.ObjectLead, authorization.ActionUpdate), s.UpdateLeadStatus)
	admin.DELETE("/leads/:id", s.authorize(authorization.ObjectLead, authorization.ActionDelete), s.DeleteLead)

	// -------- Uploads --------
	admin.POST("/uploads", s.authorize(authorization.ObjectUpload, authorization.ActionCreate), s.Upload)

	admin.GET("/audit-logs", s.authorize(authorization.ObjectAuditLog, authorization.ActionView), s.ListAuditLogs)
}

func (s *Server) RegisterFallback() {
	publicDir := s.publicDir()
	s.engine.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/admin/") {
			AbortWithError(c, ErrNotFound)
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			AbortWithError(c, ErrNotFound)
			return
		}

		// static assets (vite)
		if fileExists(publicDir, path) {
			c.File(filepath.Join(publicDir, filepath.Clean(path)))
			return
		}

		// SPA fallback
		c.File(filepath.Join(publicDir, "index.html"))
	})
}

func (s *Server) publicDir() string {
	dir := strings.TrimSpace(s.cfg.PublicDir)
	if dir == "" {
		return "./public"
	}
	return dir
}

func fileExists(publicDir, reqPath string) bool {
	clean := filepath.Clean("/" + reqPath)

	// prevent path traversal
	if clean == "/" || strings.Contains(clean, "..") {
		return false
	}

	fullPath := filepath.Join(publicDir, clean)

	info, err := os.Stat(fullPath)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
