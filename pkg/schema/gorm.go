package schema

import "gorm.io/gorm"

// AllModels lists the tables owned by revatlas.
func AllModels() []any {
	return []any{&Event{}}
}

// Migrate creates the events table with its indexes or adds whatever
// columns and indexes are missing.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
