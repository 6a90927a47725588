package mq

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yeisme/regvault/pkg/configs"
)

// init 注册进程内队列工厂.
func init() {
	RegisterFactory(configs.MQTypeChannel, channelFactory)
}

// channelFactory 创建进程内 Publisher & Subscriber.
// 发布方与订阅方共享同一个 gochannel 实例，消息不落盘，进程退出即丢弃.
func channelFactory(
	ctx context.Context,
	cfg *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: int64(cfg.Common.BufferSize),
		},
		logger,
	)

	return pubsub, pubsub, nil
}
