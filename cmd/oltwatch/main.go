package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/oltwatch/oltwatch/config"
	"github.com/oltwatch/oltwatch/internal/adminapi"
	"github.com/oltwatch/oltwatch/internal/app"
	"github.com/oltwatch/oltwatch/internal/poller"
)

var (
	confFile    = flag.String("c", "/etc/oltwatch.yml", "config file path")
	initDb      = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
	pollOnce    = flag.Bool("poll", false, "run one telemetry cycle and exit")
	discoverOne = flag.Bool("discover", false, "run one discovery cycle and exit")
	vendorClass = flag.Int("class", 0, "restrict a one-shot cycle to one vendor class")
	region      = flag.String("region", "all", "restrict a one-shot cycle to one region")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*confFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	filter := poller.InventoryFilter{VendorClass: *vendorClass, Region: *region}

	if *pollOnce {
		application.RunPollCycle(filter)
		return
	}
	if *discoverOne {
		application.RunDiscoveryCycle(filter)
		return
	}

	// long-running mode: cron jobs are already scheduled by Init
	server := adminapi.NewServer(application)
	go func() {
		if err := server.Start(); err != nil {
			zap.L().Error("admin api stopped", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	zap.L().Info("shutting down")
	_ = server.Shutdown()
}
