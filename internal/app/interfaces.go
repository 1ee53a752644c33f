package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/oltwatch/oltwatch/config"
	"github.com/oltwatch/oltwatch/internal/poller"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// PollerProvider provides the poll service
type PollerProvider interface {
	Poller() *poller.Service
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	PollerProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	// RunPollCycle runs one telemetry cycle immediately
	RunPollCycle(filter poller.InventoryFilter)
	// RunDiscoveryCycle runs one discovery cycle immediately
	RunDiscoveryCycle(filter poller.InventoryFilter)
}
