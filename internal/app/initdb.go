package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oltwatch/oltwatch/config"
	"github.com/oltwatch/oltwatch/internal/domain"
)

func getDatabase(cfg config.DBConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
		cfg.Host, cfg.User, cfg.Passwd, cfg.Name, cfg.Port, time.Local.String())

	loglevel := logger.Silent
	if cfg.Debug {
		loglevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(loglevel),
	})
	if err != nil {
		panic(fmt.Errorf("database connect failed: %w", err))
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db
}

// checkNodeProfiles initializes default vendor profiles used by discovery
func (a *Application) checkNodeProfiles() {
	defaultProfiles := []domain.NodeProfile{
		{
			ID:                9,
			Name:              "zte-c320",
			Vendor:            "ZTE",
			Service:           "ftth",
			OidOnuSerial:      ".1.3.6.1.4.1.3902.1012.3.28.1.1.5",
			OidOnuDescription: ".1.3.6.1.4.1.3902.1012.3.28.1.1.3",
			OidOnuLastOnline:  ".1.3.6.1.4.1.3902.1012.3.50.12.1.1.4",
			Remark:            "ZTE GPON OLT",
		},
		{
			ID:                17,
			Name:              "hw-ma5800",
			Vendor:            "Huawei",
			Service:           "ftth",
			OidOnuSerial:      ".1.3.6.1.4.1.2011.6.128.1.1.2.43.1.3",
			OidOnuDescription: ".1.3.6.1.4.1.2011.6.128.1.1.2.43.1.9",
			OidOnuLastOnline:  ".1.3.6.1.4.1.2011.6.128.1.1.2.101.1.5",
			Remark:            "Huawei GPON OLT",
		},
	}

	for _, p := range defaultProfiles {
		var count int64
		a.gormDB.Model(&domain.NodeProfile{}).Where("id = ?", p.ID).Count(&count)
		if count == 0 {
			p.CreatedAt = time.Now()
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create default node profile",
					zap.String("name", p.Name),
					zap.Error(err))
			} else {
				zap.L().Info("initialized default node profile",
					zap.String("name", p.Name),
					zap.String("vendor", p.Vendor))
			}
		}
	}
}
