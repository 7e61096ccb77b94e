package http

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	middleware "project-board.com/project-board/internal/http/middlewares"
	"project-board.com/project-board/internal/limiter"
)

type ServerOptions struct {
	Logger             *zap.Logger
	Limiter            limiter.Limiter
	CORSAllowedOrigins []string
}

// NewServer builds the echo instance with the middleware chain and every task route.
func NewServer(h *Handler, opts ServerOptions) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	if len(opts.CORSAllowedOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: opts.CORSAllowedOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{echo.HeaderContentType, echo.HeaderXRequestID},
		}))
	}
	if opts.Limiter != nil {
		e.Use(middleware.RateLimiter(opts.Limiter, logger))
	}

	Register(e, h)
	return e
}

func Register(e *echo.Echo, h *Handler) {
	e.GET("/health", h.Health)

	tasks := e.Group("/tasks")
	tasks.GET("", h.ListTasks)
	tasks.POST("", h.CreateTask)
	tasks.GET("/page", h.ListPage)
	tasks.GET("/search", h.SearchTasks)
	tasks.GET("/statistics", h.Statistics)
	tasks.GET("/meta", h.Meta)
	tasks.GET("/status/:status", h.TasksByStatus)
	tasks.GET("/priority/:priority", h.TasksByPriority)
	tasks.PATCH("/bulk-status", h.BulkUpdateStatus)
	tasks.GET("/:id", h.GetTask)
	tasks.PUT("/:id", h.UpdateTask)
	tasks.DELETE("/:id", h.DeleteTask)
	tasks.GET("/:id/fresh", h.FreshTask)
	tasks.GET("/:id/conflict-check", h.CheckConflict)
}
