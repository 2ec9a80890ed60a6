package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"filmoteca/internal/handler"
	"filmoteca/internal/middleware"
	"filmoteca/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	movieHandler *handler.MovieHandler,
	orderHandler *handler.OrderHandler,
	statsHandler *handler.StatsHandler,
	searchHandler *handler.SearchHandler,
) {
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.SignUp)
	api.POST("/auth/signin", authHandler.SignIn)
	api.POST("/auth/signout", authHandler.SignOut)
	api.GET("/movies", movieHandler.List)
	api.GET("/movies/genres", movieHandler.Genres)
	api.GET("/movies/:id", movieHandler.Get)

	// Session routes (valid bearer token, user active)
	session := api.Group("", middleware.Session(authService))
	session.GET("/me", authHandler.Me)
	session.PUT("/me", authHandler.UpdateProfile)
	session.POST("/orders", orderHandler.Create)
	session.GET("/orders/mine", orderHandler.ListMine)
	session.GET("/search/movies", searchHandler.Movies)

	// Admin routes: the role is re-verified server-side on every call.
	admin := api.Group("", middleware.Session(authService), middleware.RequireAdmin())
	admin.GET("/orders", orderHandler.List)
	admin.GET("/orders/:id", orderHandler.Get)
	admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	admin.POST("/orders/:id/advance", orderHandler.Advance)
	admin.DELETE("/orders/:id", orderHandler.Delete)

	admin.POST("/movies", movieHandler.Create)
	admin.PUT("/movies/:id", movieHandler.Update)
	admin.DELETE("/movies/:id", movieHandler.Delete)
	admin.POST("/movies/:id/availability", movieHandler.ToggleAvailability)

	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.GET("/users/:id", userHandler.Get)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.POST("/users/:id/toggle-active", userHandler.ToggleActive)

	admin.GET("/stats/users", userHandler.Stats)
	admin.GET("/stats/orders", statsHandler.Orders)
	admin.GET("/stats/movies", movieHandler.Stats)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
