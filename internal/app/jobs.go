package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/oltwatch/oltwatch/internal/poller"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	pollSpec := fmt.Sprintf("@every %ds", a.appConfig.Poller.PollInterval)
	_, err := a.sched.AddFunc(pollSpec, func() {
		a.RunPollCycle(poller.InventoryFilter{})
	})
	if err != nil {
		zap.S().Errorf("init poll job error %s", err.Error())
	}

	discoverySpec := fmt.Sprintf("@every %ds", a.appConfig.Poller.DiscoveryInterval)
	_, err = a.sched.AddFunc(discoverySpec, func() {
		a.RunDiscoveryCycle(poller.InventoryFilter{})
	})
	if err != nil {
		zap.S().Errorf("init discovery job error %s", err.Error())
	}

	a.sched.Start()
}

// RunPollCycle runs one telemetry cycle under the configured deadline.
func (a *Application) RunPollCycle(filter poller.InventoryFilter) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), a.appConfig.Poller.CycleDeadline())
	defer cancel()

	if err := a.pollService.RunPoll(ctx, filter); err != nil {
		zap.L().Error("poll cycle error", zap.Error(err))
	}
}

// RunDiscoveryCycle runs one discovery cycle under the configured deadline.
func (a *Application) RunDiscoveryCycle(filter poller.InventoryFilter) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), a.appConfig.Poller.CycleDeadline())
	defer cancel()

	if err := a.pollService.RunDiscovery(ctx, filter); err != nil {
		zap.L().Error("discovery cycle error", zap.Error(err))
	}
}
