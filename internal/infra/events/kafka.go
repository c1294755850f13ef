package events

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

const (
	DefaultQueueSize    = 1024
	DefaultWriteTimeout = 5 * time.Second
)

// KafkaConfig параметры издателя
type KafkaConfig struct {
	Brokers      []string
	TopicPrefix  string
	QueueSize    int
	WriteTimeout time.Duration
}

// KafkaPublisher публикует события в Kafka в фоне.
// Publish только кладет событие в очередь и никогда не блокирует вызывающего:
// при переполнении очереди событие отбрасывается с предупреждением
type KafkaPublisher struct {
	writer  MessageWriter
	cfg     KafkaConfig
	metrics Metrics
	log     Logger

	mu        sync.RWMutex
	closed    bool
	queue     chan domain.BookingEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewKafkaWriter создает kafka.Writer для списка брокеров
func NewKafkaWriter(brokers []string) (*kafka.Writer, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}, nil
}

// NewKafkaPublisher создает издателя и запускает фоновую отправку
func NewKafkaPublisher(writer MessageWriter, cfg KafkaConfig, metrics Metrics, log Logger) *KafkaPublisher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}

	p := &KafkaPublisher{
		writer:  writer,
		cfg:     cfg,
		metrics: metrics,
		log:     log,
		queue:   make(chan domain.BookingEvent, cfg.QueueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish ставит событие в очередь на отправку.
// После Close события отбрасываются
func (p *KafkaPublisher) Publish(_ context.Context, event domain.BookingEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.log.Warn("KafkaPublisher: publisher is closed, dropping event=%s type=%s booking=%s",
			event.ID, event.Type, event.BookingID)
		p.metrics.RecordEvent(string(event.Type), false)
		return
	}

	select {
	case p.queue <- event:
	default:
		p.log.Warn("KafkaPublisher: queue is full, dropping event=%s type=%s booking=%s",
			event.ID, event.Type, event.BookingID)
		p.metrics.RecordEvent(string(event.Type), false)
	}
}

// Close дожидается отправки событий из очереди и закрывает writer
func (p *KafkaPublisher) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()

		<-p.done
		err = p.writer.Close()
	})
	return err
}

func (p *KafkaPublisher) run() {
	defer close(p.done)

	for event := range p.queue {
		p.send(event)
	}
}

func (p *KafkaPublisher) send(event domain.BookingEvent) {
	msg, err := BuildMessage(p.cfg.TopicPrefix, event)
	if err != nil {
		p.log.Error("KafkaPublisher: event=%s: %v", event.ID, err)
		p.metrics.RecordEvent(string(event.Type), false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.WriteTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("KafkaPublisher: failed to publish event=%s type=%s booking=%s: %v",
			event.ID, event.Type, event.BookingID, err)
		p.metrics.RecordEvent(string(event.Type), false)
		return
	}

	p.metrics.RecordEvent(string(event.Type), true)
}
