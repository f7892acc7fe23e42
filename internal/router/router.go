package router

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"authservice/docs"
	"authservice/internal/config"
	"authservice/internal/handler"
	"authservice/internal/middleware"
	"authservice/internal/model"
	"authservice/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *zap.Logger,
	authService service.AuthService,
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)
	e.Validator = NewValidator()

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(logger))
	e.Use(echomw.Recover())

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	e.GET("/healthz", healthz)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Both prefixes serve the same directory.
	for _, prefix := range []string{"/users", "/usuarios"} {
		users := e.Group(prefix)
		users.GET("", userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.PATCH("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	jwt := middleware.JWT(authService)

	authGroup := e.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/perfil", authHandler.Profile, jwt)

	admin := e.Group("/admin", jwt, middleware.RequireRoles(model.RoleAdmin))
	admin.GET("", adminHandler.Dashboard)
	admin.GET("/users", adminHandler.ListUsers)

	user := e.Group("/user", jwt, middleware.RequireRoles(model.RoleUser))
	user.GET("/perfil", authHandler.UserProfile)
}

// healthz godoc
// @Summary Liveness check
// @Tags health
// @Produce plain
// @Success 200 {string} string "ok"
// @Router /healthz [get]
func healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
