package config

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"stay-booking/logger"
	"stay-booking/models"
)

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, dbName, nil
}

// DSN picks MYSQL_URL, then DATABASE_URL, then the discrete DB_* settings.
func (d DatabaseConfig) DSN() (string, string, error) {
	raw := strings.TrimSpace(d.URL)
	if raw == "" {
		raw = strings.TrimSpace(d.AltURL)
	}
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, d.Name, nil
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Pass, d.Host, d.Port, d.Name,
	)
	return dsn, d.Name, nil
}

// Migrate creates or updates every table, parents first.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.AuthAccount{},
		&models.User{},
		&models.Experience{},
		&models.Wishlist{},
		&models.Reservation{},
		&models.DateOption{},
		&models.RoomOption{},
	)
}

func ConnectDatabase(cfg DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dsn, dbName, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if log.Core().Enabled(zap.DebugLevel) {
		level = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.NewGorm(log, level, cfg.SlowSQL),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetConnMaxLifetime(cfg.Lifetime)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", dbName, err)
	}
	if cfg.Seed {
		if err := SeedDatabase(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}
