package export

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Alerter raises an operator-facing alert for a partially or totally failed
// run. Alerts always carry the service identity and the failing export-type
// names.
type Alerter interface {
	Alert(ctx context.Context, outcome string, failedTypes []string)
}

// LogAlerter logs every alert and optionally forwards it by email when
// notifications are enabled in settings.
type LogAlerter struct {
	service  string
	notify   bool
	notifier EmailNotifier
	logger   *zap.Logger
}

// NewLogAlerter creates a new LogAlerter. The notifier may be nil when email
// notifications are disabled.
func NewLogAlerter(service string, notify bool, notifier EmailNotifier, logger *zap.Logger) *LogAlerter {
	return &LogAlerter{
		service:  service,
		notify:   notify,
		notifier: notifier,
		logger:   logger,
	}
}

// Alert implements Alerter
func (a *LogAlerter) Alert(ctx context.Context, outcome string, failedTypes []string) {
	a.logger.Error("Export run failed",
		zap.String("service", a.service),
		zap.String("outcome", outcome),
		zap.Strings("failed_types", failedTypes),
	)

	if !a.notify || a.notifier == nil {
		return
	}

	subject := fmt.Sprintf("[%s] Export run %s", a.service, outcome)
	body := fmt.Sprintf("The following export types failed: %s", strings.Join(failedTypes, ", "))
	if err := a.notifier.Send(ctx, subject, body); err != nil {
		a.logger.Warn("Failed to send alert notification", zap.Error(err))
	}
}
