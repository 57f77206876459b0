package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"gorm.io/gorm/clause"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/models"
)

type seedFile struct {
	Tags        []models.Tag        `json:"tags"`
	Ingredients []models.Ingredient `json:"ingredients"`
}

// Loads tag and ingredient reference data from a JSON fixture, skipping
// rows that already exist.
func main() {
	path := flag.String("file", "data/reference.json", "path to the reference data JSON file")
	flag.Parse()

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if len(seed.Tags) > 0 {
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed.Tags)
		if res.Error != nil {
			log.Fatalf("Failed to seed tags: %v", res.Error)
		}
		log.Printf("Seeded %d of %d tags", res.RowsAffected, len(seed.Tags))
	}
	if len(seed.Ingredients) > 0 {
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed.Ingredients)
		if res.Error != nil {
			log.Fatalf("Failed to seed ingredients: %v", res.Error)
		}
		log.Printf("Seeded %d of %d ingredients", res.RowsAffected, len(seed.Ingredients))
	}
}
