// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/chat/title"
	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	titleGenerator *title.Generator
	eventPublisher *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	titleGenerator *title.Generator,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		titleGenerator: titleGenerator,
		eventPublisher: eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
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
	var payload dto.GenerateTitleMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal title message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: payload.ChatId})
	if err != nil {
		log.Printf("[ERROR] Failed to get chat %s: %v", payload.ChatId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if chat == nil {
		log.Printf("[WARN] Chat %s gone before title generation", payload.ChatId)
		msg.Ack() // Chat deleted? Ack.
		return
	}

	generated := cs.titleGenerator.Generate(ctx, payload.Message)
	if generated == chat.Title {
		msg.Ack()
		return
	}

	chat.Title = generated
	if err := uow.ChatRepository().Update(ctx, chat); err != nil {
		log.Printf("[ERROR] Failed to update chat title %s: %v", payload.ChatId, err)
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeTitleGenerated,
			Data: map[string]interface{}{
				"chat_id": chat.Id,
				"user_id": chat.UserId,
				"title":   chat.Title,
			},
			OccurredAt: time.Now(),
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish TITLE_GENERATED event: %v", err)
		}
	}

	msg.Ack()
}
