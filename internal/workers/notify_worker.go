package workers

import (
	"context"

	"skyops/copilot/internal/engine"
	"skyops/copilot/internal/logging"
	"skyops/copilot/internal/metrics"
)

// NotifyQueue buffers outbound passenger notifications so resolution
// handlers never block on SMTP.
var NotifyQueue = make(chan engine.Notification, 100)

// QueueNotifier enqueues notifications for the background worker. Enqueueing
// never fails; a full queue drops the message with a warning, which is
// acceptable for best-effort delivery.
type QueueNotifier struct{}

var _ engine.Notifier = (*QueueNotifier)(nil)

func (QueueNotifier) Notify(ctx context.Context, n engine.Notification) error {
	select {
	case NotifyQueue <- n:
	default:
		logging.Warn("notification queue full, dropping message",
			"flight_id", n.FlightID,
			"status_type", n.StatusType,
		)
	}
	return nil
}

// StartNotifyWorker drains the queue until ctx is cancelled.
func StartNotifyWorker(ctx context.Context, delivery engine.Notifier, metricsReg *metrics.MetricsRegistry) {
	go func() {
		logging.Info("notification worker started")
		for {
			select {
			case <-ctx.Done():
				logging.Info("notification worker stopped")
				return
			case n := <-NotifyQueue:
				if err := delivery.Notify(ctx, n); err != nil {
					logging.Warn("notification delivery failed",
						"flight_id", n.FlightID,
						"error", err.Error(),
					)
					if metricsReg != nil {
						metricsReg.NotificationsTotal.WithLabelValues("failed").Inc()
					}
					continue
				}
				if metricsReg != nil {
					metricsReg.NotificationsTotal.WithLabelValues("sent").Inc()
				}
			}
		}
	}()
}
