package httptransport

import (
	"log/slog"

	"authgate/internal/token"
	"authgate/internal/transport/http/handler"
	"authgate/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, tokens *token.Issuer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Protected routes
	authMW := middleware.Auth(tokens)
	r.GET("/me", authMW, authHandler.Me)

	return r
}
