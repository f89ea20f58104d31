package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"medstore/internal/config"
	"medstore/internal/db"
	"medstore/internal/model"
	"medstore/internal/repository"
	"medstore/internal/upload"
)

// SeedMedicine is one catalog entry inserted by the seeder.
type SeedMedicine struct {
	Name     string
	Price    int64
	Quantity int
}

var catalog = []SeedMedicine{
	{Name: "Acetyldihydrocodeine", Price: 100000, Quantity: 50},
	{Name: "Alfentanil", Price: 12000, Quantity: 40},
	{Name: "Alphaprodine", Price: 15000, Quantity: 60},
	{Name: "Butorphanol", Price: 20000, Quantity: 30},
}

func main() {
	log.SetLevel(log.INFO)
	log.Info("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Info("Connected to database")

	if err := gormDB.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Info("Database migrations completed")

	created, skipped, err := seedMedicines(context.Background(), repository.NewMedicineRepository(gormDB), catalog)
	if err != nil {
		log.Fatalf("Failed to seed medicines: %v", err)
	}

	log.Info("Seed completed successfully!")
	log.Infof("  - New medicines created: %d", created)
	log.Infof("  - Existing medicines skipped: %d", skipped)
}

// seedMedicines inserts every entry whose name is not yet in the catalog.
// Seeded medicines are restricted and point at /uploads/<lower_name>.jpg.
func seedMedicines(ctx context.Context, repo repository.MedicineRepository, entries []SeedMedicine) (created int, skipped int, err error) {
	for _, entry := range entries {
		_, err := repo.FindByName(ctx, entry.Name)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, skipped, fmt.Errorf("error checking medicine %s: %w", entry.Name, err)
		}

		image := upload.URLPrefix + "/" + upload.FileName(entry.Name, ".jpg")
		medicine := &model.Medicine{
			Name:       entry.Name,
			Price:      decimal.NewFromInt(entry.Price),
			ImageRef:   &image,
			Quantity:   entry.Quantity,
			Restricted: model.Restricted,
		}
		if err := repo.Create(ctx, medicine); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("error creating medicine %s: %w", entry.Name, err)
		}
		created++
	}

	return created, skipped, nil
}
