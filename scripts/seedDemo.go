package main

import (
	"apex/config"
	"apex/database"
	"apex/models/course"
	"apex/models/shop"
	"log"
)

// Migrates the configured database and loads the demo catalog without
// starting the server.
func main() {
	// Load config and connect to database
	cfg := config.LoadConfig()
	db, err := database.ConnectDb(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	if err := database.SeedDemo(db); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	var courses, products int64
	db.Model(&course.Course{}).Count(&courses)
	db.Model(&shop.Product{}).Count(&products)

	log.Printf("=== Seed Complete ===")
	log.Printf("Courses: %d", courses)
	log.Printf("Products: %d", products)
}
