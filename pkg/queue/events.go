package queue

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Publisher 发布端最小接口，mq.Client 满足它.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// -------------------------- 基于业务封装 events --------------------------

// topicForAction 法规变更动作到主题的映射.
func topicForAction(action string) string {
	switch action {
	case "create":
		return TopicRegulationCreated
	case "delete":
		return TopicRegulationDeleted
	default:
		return TopicRegulationUpdated
	}
}

// PublishRegulationChanged 发布法规变更事件，主题按 Action 选择.
// 通知服务订阅这些主题并落为站内通知.
func PublishRegulationChanged(ctx context.Context, pub Publisher, payload RegulationChangedPayload, opts ...func(*EventHeader)) error {
	topic := topicForAction(payload.Action)

	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(ctx, topic, msg)
}

// ParseRegulationChanged 将 Watermill 消息解析为强类型 Envelope（RegulationChangedPayload）.
func ParseRegulationChanged(msg *message.Message) (Message[RegulationChangedPayload], error) {
	return ParseWatermillMessage[RegulationChangedPayload](msg)
}

// PublishUpdateAvailable 发布新版本可用事件.
func PublishUpdateAvailable(ctx context.Context, pub Publisher, payload UpdateAvailablePayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicUpdateAvailable, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(ctx, TopicUpdateAvailable, msg)
}

// ParseUpdateAvailable 解析新版本可用事件.
func ParseUpdateAvailable(msg *message.Message) (Message[UpdateAvailablePayload], error) {
	return ParseWatermillMessage[UpdateAvailablePayload](msg)
}

// PublishEvent 发布任意主题的事件负载.
func PublishEvent[T any](ctx context.Context, pub Publisher, topic string, payload T, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(ctx, topic, msg)
}
