package migrations

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// migration002Up creates the voters and candidates tables
func migration002Up(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// migration002Down drops the core tables
func migration002Down(db *gorm.DB) error {
	for _, table := range []string{"candidates", "voters"} {
		if err := db.Exec("DROP TABLE IF EXISTS " + pq.QuoteIdentifier(table) + " CASCADE").Error; err != nil {
			return err
		}
	}
	return nil
}
