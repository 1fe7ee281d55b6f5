package database

import (
	"apex/models/course"
	"apex/models/shop"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// SeedDemo inserts a small catalog when the courses table is empty.
func SeedDemo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&course.Course{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("[SEED] Catalog already present, skipping")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		courses := []course.Course{
			{Title: "Full-Stack Web Development", Description: "HTML, CSS, JavaScript and a REST backend from scratch.", Instructor: "Grace Wanjiku", Category: "web", Level: "beginner", Price: 4999, Duration: 40, TotalLessons: 10, IsPublished: true},
			{Title: "Cloud Fundamentals", Description: "Networking, containers and managed services.", Instructor: "Brian Otieno", Category: "cloud", Level: "intermediate", Price: 6999, Duration: 24, TotalLessons: 8, IsPublished: true},
			{Title: "Data Analysis with SQL", Description: "Query, aggregate and report on relational data.", Instructor: "Amina Hassan", Category: "data", Level: "beginner", Price: 2999, Duration: 12, IsPublished: true},
		}
		if err := tx.Create(&courses).Error; err != nil {
			return err
		}

		for _, c := range courses {
			n := c.TotalLessons
			if n == 0 {
				n = 6
			}
			lessons := make([]course.Lesson, 0, n)
			for i := 1; i <= n; i++ {
				lessons = append(lessons, course.Lesson{
					CourseID:        c.ID,
					Title:           fmt.Sprintf("Lesson %d", i),
					Slug:            fmt.Sprintf("lesson-%d", i),
					DurationMinutes: 45,
					OrderIndex:      i,
					IsPreview:       i == 1,
				})
			}
			if err := tx.Create(&lessons).Error; err != nil {
				return err
			}

			exam := course.Exam{
				CourseID:        c.ID,
				Title:           c.Title + " Final Exam",
				Instructions:    "Answer all questions. You need 70% to pass.",
				DurationMinutes: 60,
				IsActive:        true,
				Questions: []course.ExamQuestion{
					{ID: 1, Question: "Which HTTP method is idempotent?", Type: "multiple_choice", Options: []string{"POST", "PUT", "PATCH"}, CorrectAnswer: "PUT", Points: 1},
					{ID: 2, Question: "What does SQL stand for?", Type: "multiple_choice", Options: []string{"Structured Query Language", "Simple Query Logic"}, CorrectAnswer: "Structured Query Language", Points: 1},
					{ID: 3, Question: "Which status code means Not Found?", Type: "multiple_choice", Options: []string{"200", "404", "500"}, CorrectAnswer: "404", Points: 1},
				},
			}
			if err := tx.Create(&exam).Error; err != nil {
				return err
			}
		}

		products := []shop.Product{
			{Name: "Apex Hoodie", Description: "Branded cotton hoodie", Category: "merch", Price: 2500, Stock: 50, IsActive: true},
			{Name: "Developer Notebook", Description: "A5 dotted notebook", Category: "stationery", Price: 650, Stock: 200, IsActive: true},
			{Name: "USB-C Hub", Description: "7-in-1 hub", Category: "hardware", Price: 4200, Stock: 25, IsActive: true},
		}
		if err := tx.Create(&products).Error; err != nil {
			return err
		}

		log.Printf("[SEED] Inserted %d courses and %d products", len(courses), len(products))
		return nil
	})
}
