package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/you/checkoutsvc/domain"
)

// ZerologAuditLogger implements domain.AuditLogger by emitting structured
// events. Audit logging is best-effort and never blocks the checkout flow.
type ZerologAuditLogger struct {
	logger zerolog.Logger
}

// NewZerologAuditLogger creates an audit logger on top of the given logger
func NewZerologAuditLogger(logger zerolog.Logger) domain.AuditLogger {
	return &ZerologAuditLogger{logger: logger}
}

// LogEvent implements domain.AuditLogger
func (l *ZerologAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	if event == nil {
		return
	}

	var evt *zerolog.Event
	if event.Success {
		evt = l.logger.Info()
	} else {
		evt = l.logger.Warn()
	}

	evt = evt.
		Str("event_type", string(event.EventType)).
		Time("timestamp", event.Timestamp).
		Bool("success", event.Success)

	if event.CartID != "" {
		evt = evt.Str("cart_id", event.CartID)
	}
	if event.CustomerID != 0 {
		evt = evt.Uint("customer_id", event.CustomerID)
	}
	if event.OrderID != "" {
		evt = evt.Str("order_id", event.OrderID)
	}
	if event.ErrorMsg != "" {
		evt = evt.Str("error", event.ErrorMsg)
	}
	if len(event.Metadata) > 0 {
		evt = evt.Interface("metadata", event.Metadata)
	}

	evt.Msg("audit event")
}
