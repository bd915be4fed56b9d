package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
	"warehub/config"
	"warehub/infras/kafka"
	kafkaMocks "warehub/infras/kafka/mocks"
	"warehub/infras/otel/mocks"
	"warehub/internal/domains/notification/event"
	notifMocks "warehub/internal/domains/notification/mocks"
	"warehub/internal/domains/notification/model"
	"warehub/shared/failure"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "warehub"
	cfg.Kafka.Topic.BookingEvents = "booking-events"

	return cfg
}

func TestPublisher_Publish(t *testing.T) {
	t.Run("sends events keyed by warehouse", func(t *testing.T) {
		client := kafkaMocks.NewMockClient(gomock.NewController(t))

		sent := make(chan []kafka.Message, 1)

		client.EXPECT().Enabled().Return(true)
		client.EXPECT().SendMessages(gomock.Any(), "booking-events", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				sent <- messages

				return nil
			})

		event.NewPublisher(client, testConfig(), mocks.NewOtel()).Publish(context.Background(),
			model.BookingEvent{Type: model.EventBookingCreated, BookingID: "b-1", WarehouseID: "w-1"},
			model.BookingEvent{Type: model.EventBookingCreated, BookingID: "b-2", WarehouseID: "w-2"},
		)

		select {
		case messages := <-sent:
			require.Len(t, messages, 2)
			assert.Equal(t, "w-1", messages[0].Key)
			assert.Equal(t, "w-2", messages[1].Key)
		case <-time.After(time.Second):
			t.Fatal("events were not published")
		}
	})

	t.Run("disabled client", func(t *testing.T) {
		client := kafkaMocks.NewMockClient(gomock.NewController(t))
		client.EXPECT().Enabled().Return(false)

		event.NewPublisher(client, testConfig(), mocks.NewOtel()).Publish(context.Background(), model.BookingEvent{BookingID: "b-1"})
	})

	t.Run("nothing to send", func(t *testing.T) {
		client := kafkaMocks.NewMockClient(gomock.NewController(t))

		event.NewPublisher(client, testConfig(), mocks.NewOtel()).Publish(context.Background())
	})
}

func message(t *testing.T, value any) kafkaGo.Message {
	t.Helper()

	raw, err := json.Marshal(value)
	require.NoError(t, err)

	return kafkaGo.Message{Key: []byte("w-1"), Value: raw}
}

func TestConsumer_Handle(t *testing.T) {
	booking := model.BookingEvent{Type: model.EventBookingCompleted, BookingID: "b-1", WarehouseID: "w-1", RenterID: "r-1", OwnerID: "o-1"}

	tests := []struct {
		name    string
		message func(t *testing.T) kafkaGo.Message
		result  error
		handled bool
		wantErr bool
	}{
		{
			name:    "stores the event",
			message: func(t *testing.T) kafkaGo.Message { return message(t, booking) },
			handled: true,
		},
		{
			name:    "undecodable payload is dropped",
			message: func(*testing.T) kafkaGo.Message { return kafkaGo.Message{Value: []byte("{")} },
		},
		{
			name:    "invalid event is dropped",
			message: func(t *testing.T) kafkaGo.Message { return message(t, booking) },
			result:  failure.BadRequestFromString("unknown booking event type"),
			handled: true,
		},
		{
			name:    "storage failure is retried",
			message: func(t *testing.T) kafkaGo.Message { return message(t, booking) },
			result:  errors.New("db down"),
			handled: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := notifMocks.NewMockNotificationService(ctrl)

			if tt.handled {
				svc.EXPECT().HandleEvent(gomock.Any(), booking).Return(tt.result)
			}

			consumer := event.NewConsumer(kafkaMocks.NewMockClient(ctrl), svc, testConfig(), mocks.NewOtel())

			err := consumer.Handle(context.Background(), tt.message(t))
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestConsumer_Run(t *testing.T) {
	t.Run("disabled client", func(t *testing.T) {
		client := kafkaMocks.NewMockClient(gomock.NewController(t))
		client.EXPECT().Enabled().Return(false)

		consumer := event.NewConsumer(client, nil, testConfig(), mocks.NewOtel())

		assert.NoError(t, consumer.Run(context.Background()))
	})

	t.Run("joins the derived group", func(t *testing.T) {
		client := kafkaMocks.NewMockClient(gomock.NewController(t))
		client.EXPECT().Enabled().Return(true)
		client.EXPECT().Consume(gomock.Any(), "warehub-notifications", "booking-events", gomock.Any()).Return(nil)

		consumer := event.NewConsumer(client, nil, testConfig(), mocks.NewOtel())

		assert.NoError(t, consumer.Run(context.Background()))
	})
}
