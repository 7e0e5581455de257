package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"

	ginlogger "github.com/FabienMht/ginslog/logger"
	ginrecovery "github.com/FabienMht/ginslog/recovery"
	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-contrib/gzip"
	size "github.com/gin-contrib/size"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/turbot/flowpipe-form/fperr"
	"github.com/turbot/flowpipe-form/internal/client"
	"github.com/turbot/flowpipe-form/internal/log"
	"github.com/turbot/flowpipe-form/internal/service/api/middleware"
	"github.com/turbot/flowpipe-form/internal/theme"
)

// APIService serves the form pages: the explicit-submit form variant at
// /form/:id/:hash and the auto-submit input variant at /input/:id/:hash.
// The Flowpipe server it talks to is configured via api.base_url.
type APIService struct {
	// ctx is the context used by the API service.
	ctx context.Context

	Client client.FormAPI
	Theme  *theme.Provider

	httpServer *http.Server

	HTTPAddress string
	HTTPPort    int

	// Status tracking for the API service.
	Status    string
	StartedAt *time.Time

	StoppedAt *time.Time `json:"stopped_at,omitempty"`
	router    *gin.Engine
}

// APIServiceOption defines a type of function to configures the APIService.
type APIServiceOption func(*APIService) error

// NewAPIService creates a new APIService.
func NewAPIService(ctx context.Context, formClient client.FormAPI, themeProvider *theme.Provider, opts ...APIServiceOption) (*APIService, error) {
	// Defaults
	api := &APIService{
		ctx:    ctx,
		Client: formClient,
		Theme:  themeProvider,
		Status: "initialized",
	}
	// Set options
	for _, opt := range opts {
		err := opt(api)
		if err != nil {
			return api, err
		}
	}
	return api, nil
}

// WithHTTPAddress sets the host of the API HTTP service.
func WithHTTPAddress(addr string) APIServiceOption {
	return func(api *APIService) error {
		api.HTTPAddress = addr
		return nil
	}
}

// WithHTTPPort sets port of the API HTTP service
func WithHTTPPort(port int) APIServiceOption {
	return func(api *APIService) error {
		api.HTTPPort = port
		return nil
	}
}

// Start starts the API service.
func (api *APIService) Start() error {

	slog.Debug("API starting")
	defer slog.Debug("API started")

	// Set the gin mode based on our environment, to configure logging etc as appropriate
	gin.SetMode(viper.GetString("environment"))
	binding.EnableDecoderDisallowUnknownFields = true

	// Initialize gin
	router := gin.New()

	// Add a ginslog middleware, which:
	//   - Logs all requests, like a combined access and error log.
	//   - Logs to stdout.
	router.Use(ginlogger.New(log.FormLogger()))

	// Logs all panic to error log
	router.Use(ginrecovery.New(log.FormLoggerWithLevelAndWriter(slog.LevelDebug, os.Stderr)))

	// Limit the size of POST requests
	router.Use(size.RequestSizeLimiter(viper.GetInt64("web.request.size_limit")))

	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Simple rate limiting:
	// * In memory only, so will not check across web servers
	// * Burst is the initial credits, with fill being added per second (to max of burst)
	apiLimiter := tollbooth.NewLimiter(viper.GetFloat64("web.rate.fill"), &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	apiLimiter.SetBurst(viper.GetInt("web.rate.burst"))
	router.Use(middleware.LimitHandler(apiLimiter))

	router.Use(middleware.SecurityMiddleware(api.ctx))

	api.FormRegisterAPI(router)
	api.ThemeRegisterAPI(router)

	api.router = router

	// Custom validators for our types
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Return the JSON fieldname in the Tag() field for errors.
		// See https://github.com/go-playground/validator/issues/287
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}

	router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method
		c.JSON(http.StatusNotFound, gin.H{"error": fperr.NotFoundWithMessage(fmt.Sprintf("Not Found: %s %s.", method, path))})
	})

	// Server setup with graceful shutdown
	api.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", api.HTTPAddress, api.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 60 * time.Second,
	}

	// Initializing the server in a goroutine so that
	// it won't block the graceful shutdown handling below
	go func() {
		if err := api.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("API server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	now := time.Now()
	api.StartedAt = &now
	api.Status = "running"

	return nil
}

// Router exposes the gin engine, used by tests to drive requests without a
// listening socket.
func (api *APIService) Router() *gin.Engine {
	return api.router
}

// Stop stops the API service.
func (api *APIService) Stop() error {
	slog.Debug("API stopping")
	defer slog.Debug("API stopped")

	// The context is used to inform the server it has time to finish the request
	// it is currently handling
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), time.Duration(viper.GetInt("web.server.cooldown_secs"))*time.Second)
	defer cancel()

	if api.httpServer != nil {
		if err := api.httpServer.Shutdown(ctxWithTimeout); err != nil {
			return err
		}
		slog.Debug("API HTTP server stopped")
	}

	now := time.Now()
	api.StoppedAt = &now
	api.Status = "stopped"
	return nil
}
