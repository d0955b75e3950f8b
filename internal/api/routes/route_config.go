package routes

import (
	"Markit-Pantry/internal/api/handlers"
	"Markit-Pantry/internal/middleware"
	"Markit-Pantry/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	App           *fiber.App
	UserHandler   handlers.UserHandler
	PantryHandler handlers.PantryHandler
	Middleware    middleware.Middleware
	JWTService    jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Use(c.Middleware.PrometheusMiddleware())
	c.User()
	c.Pantry()
	c.GuestRoute()
}

func (c *Config) User() {
	// user routes
	{
		c.App.Get("/", c.UserHandler.RegisterForm)
		c.App.Post("/", c.UserHandler.Register)
		c.App.Get("/register", c.UserHandler.RegisterForm)
		c.App.Post("/register", c.UserHandler.Register)
		c.App.Get("/login", c.UserHandler.LoginForm)
		c.App.Post("/login", c.UserHandler.Login)
		c.App.Post("/logout", c.UserHandler.Logout)
	}
}

func (c *Config) Pantry() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)

	c.App.Get("/dashboard", auth, c.PantryHandler.GetDashboard)
	c.App.Get("/add_product", c.PantryHandler.AddProductForm)
	c.App.Post("/add_product", auth, c.PantryHandler.AddProduct)
	c.App.Get("/product_page", c.PantryHandler.GetProductPage)
	c.App.Post("/update/:id", auth, c.PantryHandler.UpdatePantryItem)
	c.App.Post("/delete_product/:id", auth, c.PantryHandler.DeletePantryItem)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong, its works. test"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
