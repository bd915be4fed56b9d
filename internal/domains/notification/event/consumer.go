package event

import (
	"context"
	"errors"
	"warehub/config"
	"warehub/infras/kafka"
	"warehub/infras/otel"
	"warehub/internal/domains/notification/model"
	"warehub/internal/domains/notification/service"
	"warehub/shared/constant"
	"warehub/shared/failure"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const consumerGroupSuffix = "-notifications"

// Consumer turns booking events into stored notifications.
type Consumer struct {
	client  kafka.Client
	service service.Notification
	topic   string
	group   string
	otel    otel.Otel
}

func NewConsumer(client kafka.Client, service service.Notification, cfg *config.Config, otel otel.Otel) *Consumer {
	group := cfg.Kafka.ConsumerGroup
	if group == "" {
		group = cfg.App.Name + consumerGroupSuffix
	}

	return &Consumer{
		client:  client,
		service: service,
		topic:   cfg.Kafka.Topic.BookingEvents,
		group:   group,
		otel:    otel,
	}
}

// Run consumes until ctx is done. It returns nil straight away when no
// brokers are configured.
func (c *Consumer) Run(ctx context.Context) error {
	if !c.client.Enabled() {
		log.Warn().Msg("kafka is disabled, notification consumer not started")

		return nil
	}

	err := c.client.Consume(ctx, c.group, c.topic, c.Handle)
	if errors.Is(err, kafka.ErrNoBrokers) {
		return nil
	}

	return err //nolint:wrapcheck
}

// Handle processes one message. Undecodable or unknown events are dropped so
// they do not block the partition.
func (c *Consumer) Handle(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".booking.Consume")
	defer scope.End()
	defer scope.TraceIfError(err)

	event, err := kafka.Decode[model.BookingEvent](message)
	if err != nil {
		log.Warn().Err(err).Int64("offset", message.Offset).Msg("dropping undecodable booking event")

		return nil
	}

	err = c.service.HandleEvent(ctx, event)
	if err != nil && failure.IsFailure(err) {
		log.Warn().Err(err).Str("booking", event.BookingID).Msg("dropping invalid booking event")

		return nil
	}

	return err //nolint:wrapcheck
}
