package db

import (
	"github.com/cobalt-cloud/mavengraph/pkg/env"
	_ "github.com/jackc/pgx/v4"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the database configured through the
// environment. The connection is acquired once per process
// and released with Close at shutdown.
func Open() (*gorm.DB, error) {
	var (
		gdb *gorm.DB
		err error
	)

	switch env.Variables().DatabaseType {
	case "postgres":
		gdb, err = gorm.Open(
			postgres.Open(env.Variables().DatabaseDSN),
			&gorm.Config{},
		)
	case "sqlite":
		fallthrough
	default:
		gdb, err = gorm.Open(
			sqlite.Open(env.Variables().DatabaseDSN),
			&gorm.Config{},
		)
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	return gdb, nil
}

// Close flushes and closes the underlying connection pool.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return errors.Wrap(err, "failed to resolve connection pool")
	}

	return sqlDB.Close()
}
