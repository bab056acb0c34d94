// Package models contains all data models for the truthhub application
package models

import (
	"gorm.io/gorm"
)

// AllModels returns a slice of all model types for database migrations
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Source{},
		&Article{},
		&FactCheck{},
		&Vote{},
		&Annotation{},
		&Discussion{},
		&Reply{},
		&Notification{},
		&ReputationEvent{},
	}
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
