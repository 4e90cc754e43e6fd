package models

import "gorm.io/gorm"

// Migrate creates or updates the dependency graph tables.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&Job{},
		&Build{},
		&Dependency{},
		&ParentProject{},
		&GeneratedArtifact{},
		&UpstreamCause{},
	)
}
