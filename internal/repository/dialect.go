package repository

import (
	"context"

	"gorm.io/gorm"
)

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

// procExists reports whether a stored function is installed. Only Postgres
// carries the stored functions; other dialects always answer false.
func procExists(ctx context.Context, db *gorm.DB, name string) bool {
	if !isPostgres(db) {
		return false
	}
	var ok bool
	if err := db.WithContext(ctx).Raw("SELECT to_regproc(?) IS NOT NULL", name).Scan(&ok).Error; err != nil {
		return false
	}
	return ok
}
