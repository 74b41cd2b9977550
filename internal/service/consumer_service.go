package service

import (
	"context"

	"darwinian-be/internal/pkg/logger"
	"darwinian-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// StreamDelivery pushes raw event frames to a session's watchers.
type StreamDelivery interface {
	SendToSession(sessionID uuid.UUID, data []byte)
}

// EventForwarder ships events off-process (NATS).
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	stream     StreamDelivery
	forwarder  EventForwarder
	logger     logger.ILogger
}

// NewConsumerService fans bus events out to websocket watchers and, when
// forwarder is non-nil, to the external event bus.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	stream StreamDelivery,
	forwarder EventForwarder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		stream:     stream,
		forwarder:  forwarder,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if sid, err := uuid.Parse(event.SessionID()); err == nil && cs.stream != nil {
		cs.stream.SendToSession(sid, msg.Payload)
	}

	// Delivery to NATS is best effort: the websocket stream already has it
	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to forward event", map[string]interface{}{
				"type":  event.EventType(),
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
