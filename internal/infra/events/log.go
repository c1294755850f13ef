package events

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// LogPublisher пишет события в лог. Используется, когда Kafka выключена
type LogPublisher struct {
	metrics Metrics
	log     Logger
}

// NewLogPublisher создает издателя, пишущего события в лог
func NewLogPublisher(metrics Metrics, log Logger) *LogPublisher {
	return &LogPublisher{metrics: metrics, log: log}
}

// Publish логирует событие
func (p *LogPublisher) Publish(_ context.Context, event domain.BookingEvent) {
	p.log.Info("event %s: booking=%s tenant=%s status=%s", event.Type, event.BookingID, event.TenantID, event.Status)
	p.metrics.RecordEvent(string(event.Type), true)
}

// Close ничего не делает
func (p *LogPublisher) Close() error {
	return nil
}
