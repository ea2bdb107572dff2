package outbox

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/capturekit/outboxtest/pkg/datasource"
)

// Connect opens a database connection from resolved connection parameters.
// Tests use it to seed the outbox table of the database the connector
// captures.
func Connect(params datasource.ConnectionParams, log hclog.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		params.Hostname,
		params.Port,
		params.Username,
		params.Password,
		params.DatabaseName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if log != nil {
		log.Info("connected to database",
			"host", params.Hostname,
			"port", params.Port,
			"database", params.DatabaseName,
		)
	}

	return db, nil
}
