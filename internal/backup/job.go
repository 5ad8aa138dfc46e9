package backup

import (
	"context"
	"time"

	"github.com/markhub/markhub/internal/config"
	"github.com/markhub/markhub/pkg/logger"
	"github.com/markhub/markhub/pkg/metrics"
	"github.com/robfig/cron/v3"
)

const defaultCronSpec = "59 23 * * 0"

// Job schedules the weekly automatic backup. Development environments skip
// scheduling entirely so local runs never hit the backup API.
type Job struct {
	svc  *Service
	cron *cron.Cron
}

func NewJob(svc *Service, server config.ServerConfig, cfg config.BackupConfig) (*Job, error) {
	j := &Job{svc: svc}
	if server.IsDev() || cfg.URL == "" {
		logger.Infof("automatic backups disabled")
		return j, nil
	}
	spec := cfg.CronSpec
	if spec == "" {
		spec = defaultCronSpec
	}
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(spec, j.run); err != nil {
		return nil, err
	}
	return j, nil
}

// Start begins the schedule. A no-op when backups are disabled.
func (j *Job) Start() {
	if j.cron != nil {
		j.cron.Start()
	}
}

// Stop waits for a running invocation to finish.
func (j *Job) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

func (j *Job) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := j.svc.call(ctx, "/create"); err != nil {
		metrics.BackupRuns.WithLabelValues("auto", "error").Inc()
		logger.Errorf("automatic backup: %v", err)
		return
	}
	metrics.BackupRuns.WithLabelValues("auto", "ok").Inc()
	logger.Infof("automatic backup completed")
}
