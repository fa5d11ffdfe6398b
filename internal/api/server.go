package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"

	"github.com/essence-shop/essence/internal/config"
	"github.com/essence-shop/essence/internal/db"
	"github.com/essence-shop/essence/internal/logger"
	"github.com/essence-shop/essence/internal/metrics"
	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/services"
	"github.com/essence-shop/essence/internal/shared"
	"github.com/essence-shop/essence/internal/stats"
)

// APIPrefix is where the versioned route tree is mounted
const APIPrefix = "/api/v1"

// allMethods is every method the CORS policy admits
var allMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// Server is the HTTP application: middleware, the /api/v1 route tree and the
// root and health endpoints.
type Server struct {
	settings config.Settings
	handle   *db.Handle
	log      *logger.Logger
	router   *gin.Engine
	metrics  *metrics.Metrics
	limiter  *clientLimiter

	userService    *services.UserService
	catalogService *services.CatalogService
	couponService  *services.CouponService
	cartService    *services.CartService
	orderService   *services.OrderService
	statsService   *stats.Service

	httpServer *http.Server
}

// NewServer builds the application on an open database handle. A handle can
// only come from db.Manager.Open, so the pool is always up before serving.
func NewServer(settings config.Settings, handle *db.Handle, log *logger.Logger) (*Server, error) {
	if handle == nil {
		return nil, errors.New("database handle is required; open the database first")
	}
	if log == nil {
		log = logger.Nop()
	}

	corsConfig, err := corsPolicy(settings.CORSOrigins)
	if err != nil {
		return nil, err
	}

	store := handle.Store()
	s := &Server{
		settings:       settings,
		handle:         handle,
		log:            log.Named("api"),
		router:         gin.New(),
		metrics:        metrics.New(),
		userService:    services.NewUserService(store),
		catalogService: services.NewCatalogService(store),
		couponService:  services.NewCouponService(store),
		cartService:    services.NewCartService(store),
		orderService:   services.NewOrderService(store),
		statsService:   stats.New(store),
	}
	// Forwarding headers only count from configured proxies, otherwise clients
	// could pick their own rate limit bucket.
	if err := s.router.SetTrustedProxies(settings.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	if settings.RateLimitRPS > 0 {
		s.limiter = newClientLimiter(settings.RateLimitRPS, settings.RateLimitBurst)
	}
	if err := s.metrics.RegisterDB(handle.SQLDB(), string(handle.Dialect())); err != nil {
		return nil, fmt.Errorf("failed to register pool metrics: %w", err)
	}

	s.setupMiddleware(corsConfig)
	s.setupRoutes()

	return s, nil
}

// corsPolicy admits the configured origins with every method and header and
// with credentials. "*" admits any origin by echoing it back.
func corsPolicy(origins []string) (cors.Config, error) {
	cfg := cors.Config{
		AllowMethods:     allMethods,
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cfg, nil
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return cfg, fmt.Errorf("invalid CORS origin %q: must start with http:// or https://", origin)
		}
		cfg.AllowOrigins = append(cfg.AllowOrigins, strings.TrimSuffix(origin, "/"))
	}
	if len(cfg.AllowOrigins) == 0 {
		// No browser origin is admitted; same-origin and non-browser clients are unaffected.
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cfg, nil
}

func (s *Server) setupMiddleware(corsConfig cors.Config) {
	zl := s.log.Zap()
	s.router.Use(ginzap.Ginzap(zl, time.RFC3339, true))
	s.router.Use(ginzap.RecoveryWithZap(zl, true))
	s.router.Use(s.metrics.Middleware())
	s.router.Use(cors.New(corsConfig))
	if s.limiter != nil {
		s.router.Use(s.rateLimit())
	}
}

// setupRoutes mounts the root and health endpoints and the /api/v1 tree
func (s *Server) setupRoutes() {
	s.router.GET("/", s.root)
	s.router.GET("/health", s.health)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.router.Group(APIPrefix)

	users := v1.Group("/users")
	users.POST("", s.createUser)
	users.GET("", s.listUsers)
	users.GET("/:id", s.getUser)
	users.PUT("/:id", s.updateUser)
	users.DELETE("/:id", s.deleteUser)

	brands := v1.Group("/brands")
	brands.POST("", s.createBrand)
	brands.GET("", s.listBrands)
	brands.GET("/:id", s.getBrand)
	brands.PUT("/:id", s.updateBrand)
	brands.DELETE("/:id", s.deleteBrand)

	products := v1.Group("/products")
	products.POST("", s.createProduct)
	products.GET("", s.listProducts)
	products.GET("/:id", s.getProduct)
	products.PUT("/:id", s.updateProduct)
	products.DELETE("/:id", s.deleteProduct)
	products.GET("/:id/reviews", s.listReviews)
	products.POST("/:id/reviews", s.createReview)

	v1.DELETE("/reviews/:id", s.deleteReview)
	v1.POST("/search", s.search)

	coupons := v1.Group("/coupons")
	coupons.POST("", s.createCoupon)
	coupons.GET("", s.listCoupons)
	coupons.POST("/validate", s.validateCoupon)
	coupons.GET("/:id", s.getCoupon)
	coupons.PUT("/:id", s.updateCoupon)
	coupons.DELETE("/:id", s.deleteCoupon)

	carts := v1.Group("/carts/:user_id")
	carts.GET("", s.getCart)
	carts.DELETE("", s.clearCart)
	carts.POST("/items", s.addCartItem)
	carts.PUT("/items/:product_id", s.updateCartItem)
	carts.DELETE("/items/:product_id", s.removeCartItem)

	orders := v1.Group("/orders")
	orders.POST("", s.createOrder)
	orders.GET("", s.listOrders)
	orders.GET("/:id", s.getOrder)
	orders.PATCH("/:id/status", s.updateOrderStatus)

	v1.GET("/stats", s.getStats)
}

// Router returns the gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves HTTP on the configured address until ctx is cancelled, then
// drains in-flight requests within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.settings.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting %s API server on %s", s.settings.AppName, s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	return s.Shutdown()
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown() error {
	if s.httpServer == nil {
		return nil
	}

	timeout := s.settings.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("Shutting down API server (timeout %v)", timeout)
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Error("Server shutdown failed: %v", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// root handles GET /
func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": s.settings.AppName + " API",
		"version": s.settings.AppVersion,
		"status":  "healthy",
	})
}

// health handles GET /health
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// successResponse sends a successful response
func (s *Server) successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    data,
	})
}

// createdResponse sends a 201 response for a newly created resource
func (s *Server) createdResponse(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// errorResponse sends an error response
func (s *Server) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// paginatedResponse sends one page of a list
func (s *Server) paginatedResponse(c *gin.Context, data interface{}, page, limit int, total int64) {
	c.JSON(http.StatusOK, models.PaginatedResponse{
		Success: true,
		Data:    data,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: shared.TotalPages(total, limit),
		},
	})
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrConflict), errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrInsufficientStock),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrCouponNotApplicable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// failure reports err with the status its kind maps to
func (s *Server) failure(c *gin.Context, action string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("%s %s: %s: %v", c.Request.Method, c.FullPath(), action, err)
	}
	s.errorResponse(c, status, action+": "+err.Error())
}
