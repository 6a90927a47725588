package app

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	ctxPkg "github.com/yeisme/regvault/pkg/context"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/service"
	"github.com/yeisme/regvault/pkg/log"
	"github.com/yeisme/regvault/pkg/queue"
)

// startEventSubscribers 启动站内通知订阅：法规/文件/参数变更与新版本事件
// 统一落为广播通知（user_id=0）. ctx 取消时所有订阅协程退出.
func startEventSubscribers(ctx context.Context) {
	mqClient := ctxPkg.GetMQClient(ctx)
	if mqClient == nil {
		log.Logger().Warn().Msg("mq client not available, event subscribers disabled")

		return
	}

	topics := make([]string, 0, len(queue.RegulationTopics)+len(queue.FileTopics)+len(queue.ParameterTopics)+1)
	topics = append(topics, queue.RegulationTopics...)
	topics = append(topics, queue.FileTopics...)
	topics = append(topics, queue.ParameterTopics...)
	topics = append(topics, queue.TopicUpdateAvailable)

	for _, topic := range topics {
		ch, err := mqClient.Subscribe(ctx, topic)
		if err != nil {
			log.Logger().Warn().Err(err).Str("topic", topic).Msg("subscribe failed")

			continue
		}

		go consumeTopic(ctx, topic, ch)
	}
}

func consumeTopic(ctx context.Context, topic string, ch <-chan *message.Message) {
	l := log.Logger().With().Str("topic", topic).Logger()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			if err := handleEvent(ctx, topic, msg); err != nil {
				l.Warn().Err(err).Str("msg_id", msg.UUID).Msg("handle event failed")
			}

			// 通知属尽力而为，失败也确认避免重投堆积
			msg.Ack()
		}
	}
}

// handleEvent 将事件翻译成一条广播通知.
func handleEvent(ctx context.Context, topic string, msg *message.Message) error {
	notifySvc := service.NewNotificationService(ctx)

	switch topic {
	case queue.TopicUpdateAvailable:
		env, err := queue.ParseUpdateAvailable(msg)
		if err != nil {
			return err
		}

		return notifySvc.CreateSystem(ctx, 0, model.NotifyTypeUpdate,
			"发现新版本 "+env.Payload.LatestVersion,
			fmt.Sprintf("当前版本 %s，最新版本 %s", env.Payload.CurrentVersion, env.Payload.LatestVersion))

	case queue.TopicRegulationCreated, queue.TopicRegulationUpdated, queue.TopicRegulationDeleted:
		env, err := queue.ParseRegulationChanged(msg)
		if err != nil {
			return err
		}

		return notifySvc.CreateSystem(ctx, 0, model.NotifyTypeRegulation,
			regulationEventTitle(env.Payload.Action, env.Payload.Code),
			regulationEventContent(env.Payload))

	case queue.TopicRegulationImported:
		env, err := queue.ParseWatermillMessage[queue.RegulationImportedPayload](msg)
		if err != nil {
			return err
		}

		return notifySvc.CreateSystem(ctx, 0, model.NotifyTypeRegulation,
			"法规批量导入完成",
			fmt.Sprintf("来源 %s：共 %d 条，成功 %d，跳过 %d，失败 %d",
				env.Payload.Source, env.Payload.Total, env.Payload.Success,
				env.Payload.Skipped, env.Payload.Failed))

	case queue.TopicDocumentAdded, queue.TopicDocumentRemoved,
		queue.TopicCodeFileAdded, queue.TopicCodeFileRemoved:
		env, err := queue.ParseWatermillMessage[queue.FileChangedPayload](msg)
		if err != nil {
			return err
		}

		return notifySvc.CreateSystem(ctx, 0, model.NotifyTypeRegulation,
			fileEventTitle(topic, env.Payload.Kind),
			fmt.Sprintf("法规 #%d：%s", env.Payload.RegulationID, env.Payload.FileName))

	case queue.TopicParametersSaved, queue.TopicParametersImported:
		env, err := queue.ParseWatermillMessage[queue.ParametersSavedPayload](msg)
		if err != nil {
			return err
		}

		return notifySvc.CreateSystem(ctx, 0, model.NotifyTypeRegulation,
			"参数表已更新",
			fmt.Sprintf("法规 #%d 参数 %d 行（来源 %s）",
				env.Payload.RegulationID, env.Payload.Count, env.Payload.Source))
	}

	// 未识别主题只记录，不生成通知
	log.Logger().Debug().Str("topic", topic).Msg("event without notification mapping")

	return nil
}

func regulationEventTitle(action, code string) string {
	switch action {
	case "create":
		return "新增法规 " + code
	case "delete":
		return "删除法规 " + code
	default:
		return "更新法规 " + code
	}
}

func regulationEventContent(p queue.RegulationChangedPayload) string {
	content := fmt.Sprintf("法规 %s（%s）发生 %s 操作", p.Code, p.Name, p.Action)
	if p.Operator != "" {
		content += "，操作人 " + p.Operator
	}

	return content
}

func fileEventTitle(topic, kind string) string {
	label := "文档"
	if kind == "code" {
		label = "代码文件"
	}

	switch topic {
	case queue.TopicDocumentAdded, queue.TopicCodeFileAdded:
		return "新增" + label
	default:
		return "移除" + label
	}
}
