// File: internal/jobs/outbox_dispatch.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"pet_rescue_backend/internal/config"
	"pet_rescue_backend/internal/notification"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OutboxDispatchJob periodically drains undispatched notifications to the
// configured sink.
type OutboxDispatchJob struct {
	repo          notification.Repository
	sink          notification.Sink
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewOutboxDispatchJob creates a new OutboxDispatchJob.
func NewOutboxDispatchJob(
	repo notification.Repository,
	sink notification.Sink,
	logger *zap.Logger,
	cfg *config.Config,
) *OutboxDispatchJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &OutboxDispatchJob{
		repo:          repo,
		sink:          sink,
		logger:        logger.Named("OutboxDispatchJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *OutboxDispatchJob) SetupAndStart() error {
	jobSpec := j.cfg.OutboxDispatchJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Outbox dispatch job schedule not defined (OUTBOX_DISPATCH_JOB_SCHEDULE). Job will not run.")
		return nil // Not a fatal error, just won't run
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule outbox dispatch job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Outbox dispatch job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *OutboxDispatchJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dispatched, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.Error("Outbox dispatch job run failed", zap.Error(err))
	} else if dispatched > 0 {
		j.logger.Info("Outbox dispatch job run completed", zap.Int("notifications_dispatched", dispatched))
	}
}

// RunOnce drains at most one batch of undispatched notifications and returns
// how many were delivered. A delivery or marking failure on one row is logged
// and leaves that row for the next run.
func (j *OutboxDispatchJob) RunOnce(ctx context.Context) (int, error) {
	batch, err := j.repo.FindUndispatched(ctx, j.cfg.OutboxDispatchBatchSize)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for i := range batch {
		n := &batch[i]
		if err := j.sink.Deliver(ctx, n); err != nil {
			j.logger.Error("Failed to deliver notification",
				zap.String("notification_id", n.ID.String()), zap.Error(err))
			continue
		}
		if err := j.repo.MarkDispatched(ctx, n.ID, time.Now()); err != nil {
			j.logger.Error("Failed to mark notification dispatched",
				zap.String("notification_id", n.ID.String()), zap.Error(err))
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

// Stop gracefully stops the cron scheduler.
func (j *OutboxDispatchJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping outbox dispatch job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Outbox dispatch job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Outbox dispatch job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
