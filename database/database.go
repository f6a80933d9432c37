package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"horarios-vicedecanatura/config"
)

// Connect abre la conexión según la configuración: un archivo SQLite local
// por defecto, o PostgreSQL cuando DB_DRIVER=postgres.
func Connect(opts config.DatabaseOptions) (*gorm.DB, error) {
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch opts.Driver {
	case "postgres":
		dialector = postgres.Open(opts.ConnectionString())
	default:
		dialector = sqlite.Open(opts.Path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("error conectando a la base de datos: %w", err)
	}
	return db, nil
}
