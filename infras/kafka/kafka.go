package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
	"warehub/config"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	writeTimeout   = 10 * time.Second
	consumeBackoff = time.Second
)

var ErrNoBrokers = errors.New("kafka brokers are not configured")

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal kafka message value")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal kafka message value: %w", err)
	}

	return kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: value,
	}, nil
}

// Decode unmarshals the JSON value of msg into a T.
func Decode[T any](msg kafkaGo.Message) (T, error) {
	var value T

	if err := json.Unmarshal(msg.Value, &value); err != nil {
		return value, fmt.Errorf("failed to unmarshal kafka message value: %w", err)
	}

	return value, nil
}

// Handler processes one message. A nil return commits the message offset.
type Handler func(ctx context.Context, message kafkaGo.Message) error

type Client interface {
	Enabled() bool
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error
	Close() error
}

type kafkaClientImpl struct {
	config  *config.Config
	dialer  *kafkaGo.Dialer
	trans   *kafkaGo.Transport
	mu      sync.Mutex
	writers map[string]*kafkaGo.Writer
}

func New(config *config.Config) Client {
	dialer := &kafkaGo.Dialer{
		Timeout:   writeTimeout,
		DualStack: true,
	}

	transport := &kafkaGo.Transport{
		DialTimeout: writeTimeout,
	}

	if config.Kafka.SASL.Enable {
		mechanism := plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}

		dialer.SASLMechanism = mechanism
		transport.SASL = mechanism
	}

	if len(config.Kafka.Brokers) == 0 {
		log.Warn().Msg("kafka brokers are not configured, booking events are disabled")
	} else {
		log.Info().Strs("brokers", config.Kafka.Brokers).Msg("kafka client initialized")
	}

	return &kafkaClientImpl{
		config:  config,
		dialer:  dialer,
		trans:   transport,
		writers: map[string]*kafkaGo.Writer{},
	}
}

func (k *kafkaClientImpl) Enabled() bool {
	return len(k.config.Kafka.Brokers) > 0
}

func (k *kafkaClientImpl) writer(topic string) *kafkaGo.Writer {
	k.mu.Lock()
	defer k.mu.Unlock()

	if writer, ok := k.writers[topic]; ok {
		return writer
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(k.config.Kafka.Brokers...),
		Topic:                  topic,
		Balancer:               &kafkaGo.Hash{},
		Transport:              k.trans,
		WriteTimeout:           writeTimeout,
		RequiredAcks:           kafkaGo.RequireOne,
		AllowAutoTopicCreation: true,
	}
	k.writers[topic] = writer

	return writer
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	if !k.Enabled() {
		return ErrNoBrokers
	}

	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			return err
		}

		msgs = append(msgs, msg)
	}

	if err = k.writer(topic).WriteMessages(ctx, msgs...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to send messages to kafka")

		return fmt.Errorf("failed to send messages to kafka: %w", err)
	}

	log.Debug().Str("topic", topic).Int("count", len(msgs)).Msg("sent messages to kafka")

	return nil
}

// Consume reads topic as consumerGroup until ctx is done. Messages are handled
// one at a time and committed only when handler succeeds.
func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error {
	if !k.Enabled() {
		return ErrNoBrokers
	}

	groupID := k.config.Kafka.ConsumerGroup
	if consumerGroup != "" {
		groupID = consumerGroup
	}

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.config.Kafka.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("failed to close kafka reader")
		}
	}()

	log.Info().Str("topic", topic).Str("group", groupID).Msg("kafka consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("topic", topic).Msg("kafka consumer stopped")

				return nil
			}

			log.Error().Err(err).Str("topic", topic).Msg("failed to fetch kafka message")

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(consumeBackoff):
			}

			continue
		}

		if err = handler(ctx, msg); err != nil {
			log.Error().Err(err).Str("topic", topic).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("failed to handle kafka message")

			continue
		}

		if err = reader.CommitMessages(ctx, msg); err != nil {
			log.Error().Err(err).Str("topic", topic).Int64("offset", msg.Offset).Msg("failed to commit kafka message")
		}
	}
}

func (k *kafkaClientImpl) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	var errs []error

	for topic, writer := range k.writers {
		if err := writer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close kafka writer (%s): %w", topic, err))
		}
	}

	return errors.Join(errs...)
}
