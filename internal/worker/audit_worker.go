package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/school-auth/internal/events"
)

// StartAuditWorker subscribes a structured-log audit trail to the auth
// event stream. Every authentication outcome lands in the log with the
// actor attributes; failed logins and rejected refreshes are warnings.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil || logger == nil {
		return
	}
	audit := logger.Named("audit")

	record := func(level func(string, ...zap.Field)) events.EventHandler {
		return func(_ context.Context, event events.Event) error {
			level("auth event",
				zap.String("event_id", event.ID),
				zap.String("type", string(event.Type)),
				zap.Int64("user_id", event.UserID),
				zap.Int64("school_id", event.SchoolID),
				zap.String("role", string(event.Role)),
				zap.Time("at", event.Timestamp),
				zap.String("detail", event.Detail),
			)
			return nil
		}
	}

	dispatcher.Subscribe(events.EventLoginSucceeded, record(audit.Info))
	dispatcher.Subscribe(events.EventTokenRefreshed, record(audit.Info))
	dispatcher.Subscribe(events.EventSessionRevoked, record(audit.Info))
	dispatcher.Subscribe(events.EventLoginFailed, record(audit.Warn))
	dispatcher.Subscribe(events.EventRefreshRejected, record(audit.Warn))
}
