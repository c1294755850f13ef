package events

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

const (
	HeaderEventID   = "event_id"
	HeaderEventType = "event_type"
)

// BuildMessage превращает событие в сообщение Kafka.
// Топик = prefix + тип события, ключ = ID бронирования, чтобы события одного
// бронирования попадали в одну партицию и читались по порядку
func BuildMessage(topicPrefix string, event domain.BookingEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("%w: %v", ErrEncodeEvent, err)
	}

	return kafka.Message{
		Topic: topicPrefix + string(event.Type),
		Key:   []byte(event.BookingID.String()),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(event.ID.String())},
			{Key: HeaderEventType, Value: []byte(event.Type)},
		},
	}, nil
}

// SplitBrokers разбирает список брокеров "host1:9092, host2:9092"
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
