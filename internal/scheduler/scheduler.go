package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dcastano/miscelanea/internal/config"
	"github.com/dcastano/miscelanea/internal/service/reporting"
)

// Notifier delivers the daily report to the store chat. May be nil when
// the bot is not configured; the report is then only exported/logged.
type Notifier interface {
	NotifyStore(ctx context.Context, text string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	notifier     Notifier
	cfg          config.ReportingConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the
// configured timezone so "20:00" means store-local closing time.
func NewScheduler(cfg config.ReportingConfig, reportingSvc *reporting.Service, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		reportingSvc: reportingSvc,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

// Start registers the daily closing report and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule), zap.String("timezone", s.cfg.Timezone))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendDailyReport); err != nil {
		s.logger.Error("failed to schedule daily report", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sendDailyReport() {
	s.logger.Info("generating daily report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := s.reportingSvc.SummarizeDay(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to build daily summary", zap.Error(err))
		return
	}

	report := s.reportingSvc.FormatDaySummary(summary)

	if lowStock, err := s.reportingSvc.LowStockReport(ctx); err != nil {
		s.logger.Error("failed to build low stock report", zap.Error(err))
	} else if lowStock != "" {
		report += "\n\n" + lowStock
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyStore(ctx, report); err != nil {
			s.logger.Error("failed to send daily report", zap.Error(err))
		} else {
			s.logger.Info("daily report sent")
		}
	}

	if err := s.reportingSvc.ExportDaySummary(ctx, summary); err != nil {
		s.logger.Error("failed to export daily summary", zap.Error(err))
	}
}
