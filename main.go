package main

import (
	"apex/config"
	"apex/database"
	"apex/middleware"
	"apex/routers"
	"apex/services/academy"
	"apex/services/account"
	"apex/services/email"
	"apex/services/mpesa"
	"apex/services/scheduler"
	"apex/services/shop"
	"apex/services/storage"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.ConnectDb(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	if cfg.SeedDemo {
		if err := database.SeedDemo(db); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	mailer := email.New(cfg.SendGridAPIKey, cfg.EmailSenderName, cfg.EmailSender)
	academySvc := academy.NewService(db, academy.OptionsFromConfig(cfg), storage.NewLocal(cfg.CertificateDir), mailer)
	shopSvc := shop.NewService(db, mpesa.NewClient(mpesa.ConfigFrom(cfg)), mailer)

	jobs := scheduler.New(db, shopSvc, mailer, scheduler.Options{
		PaymentTTL:   cfg.PaymentPendingTTL,
		ReminderDays: cfg.CertificateReminderDays,
	})
	if err := jobs.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Apex Academy",
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Use(middleware.RateLimiter(cfg.RateLimitMax))

	routers.Setup(app, routers.Services{Account: account.NewService(db), Academy: academySvc, Shop: shopSvc})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down...")
		jobs.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("Server is running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
