package config

import (
	"Markit-Pantry/internal/api/handlers"
	"Markit-Pantry/internal/api/routes"
	"Markit-Pantry/internal/middleware"
	"Markit-Pantry/internal/utils"
	"Markit-Pantry/internal/utils/mailing"
	"Markit-Pantry/internal/utils/storage"
	"Markit-Pantry/pkg/jwt"
	"Markit-Pantry/pkg/openfoodfacts"
	"Markit-Pantry/pkg/pantry"
	"Markit-Pantry/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         10 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   utils.GetConfig("DB_TIMEZONE"),
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	mailer, err := mailing.NewMailer()
	if err != nil {
		return nil, err
	}
	lookup := openfoodfacts.NewClientFromConfig()

	// Repository
	userRepository := user.NewUserRepository(db)
	pantryRepository := pantry.NewPantryRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, validator, mailer)
	pantryService := pantry.NewPantryService(pantryRepository, lookup, s3)

	// Handler
	userHandler := handlers.NewUserHandler(userService, jwtService, utils.GetConfig("COOKIE_SECURE") == "true")
	pantryHandler := handlers.NewPantryHandler(pantryService, validator)

	// routes
	routesConfig := routes.Config{
		App:           app,
		UserHandler:   userHandler,
		PantryHandler: pantryHandler,
		Middleware:    middlewares,
		JWTService:    jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
