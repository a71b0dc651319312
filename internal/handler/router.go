package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/goaltrack/backend/internal/token"
)

// Handlers bundles everything Register needs to wire the route table.
type Handlers struct {
	Auth    *AuthHandler
	Task    *TaskHandler
	Goal    *GoalHandler
	Suggest *SuggestHandler
}

// Register wires the explicit route table. Identity runs on every API
// route and resolves the caller (or anonymous); RequireUser gates the
// protected groups.
func Register(r *gin.Engine, h Handlers, issuer *token.Issuer, users userLoader, allowedOrigins []string) {
	r.Use(CORSMiddleware(allowedOrigins, true))

	r.GET("/", Root)
	r.GET("/ping", Ping)

	api := r.Group("/api/v1")
	api.Use(Identity(issuer, users))

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/google", h.Auth.GoogleLogin)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", RequireUser(), h.Auth.Me)
	}

	tasks := api.Group("/tasks", RequireUser())
	{
		tasks.GET("", h.Task.List)
		tasks.POST("", h.Task.Create)
		tasks.PATCH("/:id", h.Task.Update)
		tasks.DELETE("/:id", h.Task.Delete)
	}

	goals := api.Group("/goals", RequireUser())
	{
		goals.GET("", h.Goal.List)
		goals.POST("", h.Goal.Create)
		goals.PATCH("/:id", h.Goal.Update)
		goals.POST("/:id/complete", h.Goal.Complete)
		goals.DELETE("/:id", h.Goal.Delete)
	}

	if h.Suggest != nil {
		api.POST("/suggestions/task", RequireUser(), h.Suggest.SuggestTask)
	}
}
