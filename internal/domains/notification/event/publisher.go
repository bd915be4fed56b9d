package event

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=../mocks/publisher_mock.go -package=mocks

import (
	"context"
	"warehub/config"
	"warehub/infras/kafka"
	"warehub/infras/otel"
	"warehub/internal/domains/notification/model"
	"warehub/shared/constant"

	"github.com/rs/zerolog/log"
)

// Publisher emits booking lifecycle events. Publish returns immediately; the
// events are delivered in the background and failures are only logged.
type Publisher interface {
	Publish(ctx context.Context, events ...model.BookingEvent)
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &kafkaPublisher{
		client: client,
		topic:  cfg.Kafka.Topic.BookingEvents,
		otel:   otel,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, events ...model.BookingEvent) {
	if len(events) == 0 || !p.client.Enabled() {
		return
	}

	messages := make([]kafka.Message, len(events))
	for i, event := range events {
		messages[i] = kafka.Message{Key: event.WarehouseID, Value: event}
	}

	go func() {
		c, scope := p.otel.NewScope(context.WithoutCancel(ctx), constant.OtelEventScopeName, constant.OtelEventScopeName+".booking.Publish")
		defer scope.End()

		if err := p.client.SendMessages(c, p.topic, messages...); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("topic", p.topic).Int("count", len(messages)).Msg("failed to publish booking events")
		}
	}()
}
