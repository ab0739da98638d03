package handler

import (
	"net/http"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/handler/api"
	"github.com/drugsdealer/projectX-sub003/internal/handler/middleware"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/config"
	"github.com/drugsdealer/projectX-sub003/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	promoHandler *api.PromoHandler,
	authMiddleware *middleware.AuthMiddleware,
	registry *ratelimit.Registry,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, cfg.RateLimit, promoHandler, authMiddleware, registry)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	limits config.RateLimitConfig,
	promoHandler *api.PromoHandler,
	authMiddleware *middleware.AuthMiddleware,
	registry *ratelimit.Registry,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		promos := apiGroup.Group("/promocodes")
		{
			addRoutes(promos, []route{
				{Method: http.MethodGet, Path: "", Handler: promoHandler.List,
					Mw: []gin.HandlerFunc{authMiddleware.OptionalAuth()}},
				{Method: http.MethodGet, Path: "/owned", Handler: promoHandler.ListOwned,
					Mw: []gin.HandlerFunc{authMiddleware.RequireAuth()}},
				{Method: http.MethodPost, Path: "/validate", Handler: promoHandler.Validate,
					Mw: []gin.HandlerFunc{
						middleware.SameOriginGuard(),
						middleware.RateLimitByIP(registry, "promo:validate", int64(limits.ValidatePerMin), time.Minute),
						authMiddleware.OptionalAuth(),
					}},
				// Save and Redeem need a user, but the handlers check the
				// payload first, so auth resolution stays optional here.
				{Method: http.MethodPost, Path: "/save", Handler: promoHandler.Save,
					Mw: []gin.HandlerFunc{
						middleware.SameOriginGuard(),
						middleware.RateLimitByIP(registry, "promo:save", int64(limits.SavePerMin), time.Minute),
						authMiddleware.OptionalAuth(),
					}},
				{Method: http.MethodPost, Path: "/redeem", Handler: promoHandler.Redeem,
					Mw: []gin.HandlerFunc{
						middleware.SameOriginGuard(),
						middleware.RateLimitByIP(registry, "promo:redeem", int64(limits.RedeemPerMin), time.Minute),
						authMiddleware.OptionalAuth(),
					}},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
