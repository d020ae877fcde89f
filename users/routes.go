package users

import (
	"userapp/config"
	jwtmw "userapp/middleware/jwt"
	"userapp/middleware/ratelimit"
	"userapp/server"
	"userapp/services/token"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(srv *server.Server, h *Handler, tokens *token.Service, cfg *config.Config) {
	g := srv.Group("/users")

	var credentialGuard []echo.MiddlewareFunc
	if cfg.RateLimit.Enabled {
		credentialGuard = append(credentialGuard, ratelimit.Middleware(&ratelimit.Config{
			Rate:   cfg.RateLimit.Rate,
			Period: cfg.RateLimit.Period,
		}))
	}

	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/verify/:code", h.VerifyEmail)
	g.POST("/login", h.Login, credentialGuard...)
	g.GET("/me", h.Me, jwtmw.RequireJWT(tokens))
	g.POST("/reset_password", h.RequestPasswordReset, credentialGuard...)
	g.POST("/reset_password/:code", h.NewPassword, credentialGuard...)
	g.GET("/:id", h.GetOne)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Remove)
}
