package database

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/config"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

// DB is the process-wide connection, set by SetupDatabase
var DB *gorm.DB

// Models lists every table managed by AutoMigrate
var Models = []interface{}{
	&models.Tenant{},
	&models.Unit{},
	&models.Booking{},
	&models.User{},
	&models.AuditLogEntry{},
	&models.CategoryModule{},
	&models.PlanModule{},
	&models.RolePermission{},
	&models.ConfigVersion{},
}

// SetupDatabase connects with retries and migrates the schema
func SetupDatabase(cfg config.Database, debug bool) error {
	gormConfig := &gorm.Config{}
	if !debug {
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	}

	var err error
	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       cfg.DSN(),
			DefaultStringSize:         256,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), gormConfig)
		if err == nil {
			if err := DB.AutoMigrate(Models...); err != nil {
				return fmt.Errorf("failed to migrate schema: %w", err)
			}
			log.Infof("[Database] connected to %s:%d/%s", cfg.Host, cfg.Port, cfg.Name)
			return nil
		}

		log.Warnf("[Database] failed to connect (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return fmt.Errorf("database unreachable after %d tries: %w", maxRetries, err)
}

// GetDB returns the connection opened by SetupDatabase
func GetDB() *gorm.DB {
	if DB == nil {
		panic("database not initialized. Call SetupDatabase first.")
	}
	return DB
}
