// FILE: internal/service/notification_service.go
package service

import (
	"context"
	"fmt"

	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	SendToUser(userID uuid.UUID, eventType string, data map[string]interface{})
	Broadcast(eventType string, data map[string]interface{})
}

// NotificationService bridges the durable event bus to connected clients:
// when a turn completes or a title lands, every open tab of that user
// hears about it, even tabs that never held the SSE stream.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("chat.>", "ws-push-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start event subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to chat.>", nil)
}

func (s *NotificationService) handleEvent(_ context.Context, event events.Event) error {
	payload := event.Payload()

	switch event.EventType() {
	case events.TypeChatCompleted, events.TypeChatFailed, events.TypeTitleGenerated:
		userIdRaw, _ := payload["user_id"].(string)
		userId, err := uuid.Parse(userIdRaw)
		if err != nil {
			s.logger.Warn("NotificationService", fmt.Sprintf("Event %s carries no valid user_id", event.EventType()), nil)
			return nil
		}
		s.delivery.SendToUser(userId, event.EventType(), payload)
	}

	return nil
}
