package events

import "errors"

var (
	// ErrEncodeEvent возвращается, когда событие не удалось сериализовать
	ErrEncodeEvent = errors.New("events: failed to encode event")

	// ErrNoBrokers возвращается, когда Kafka включена без списка брокеров
	ErrNoBrokers = errors.New("events: no kafka brokers configured")
)
