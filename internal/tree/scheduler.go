package tree

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const rewardJobTimeout = 2 * time.Minute

// StartRewardSchedule runs AwardTop on the given cron spec (UTC). An empty
// spec disables the schedule and returns a nil scheduler.
func StartRewardSchedule(spec string, svc Service, log *zap.Logger) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}

	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), rewardJobTimeout)
		defer cancel()

		log.Info("🌳 Running top tree reward sweep")
		reward, err := svc.AwardTop(ctx, nil)
		if err != nil {
			log.Warn("⚠️ Top tree reward sweep skipped", zap.Error(err))
			return
		}
		log.Info("🏆 Top tree reward applied",
			zap.Uint("tenant_id", reward.Tenant.ID),
			zap.Uint("bill_id", reward.BillID),
			zap.Float64("total", reward.Total),
		)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info("⏰ Top tree reward scheduled", zap.String("spec", spec))
	return c, nil
}
