package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/internal/storage/mq"
	"github.com/yeisme/regvault/pkg/queue"
)

// TestEnvelopeRoundTrip 信封编码后可原样解回，头部字段进消息元数据.
func TestEnvelopeRoundTrip(t *testing.T) {
	payload := queue.RegulationChangedPayload{
		RegulationID: 42,
		Code:         "VDE-AR-N 4105",
		Action:       "update",
		Fields:       []string{"name", "status"},
		Operator:     "alice",
	}

	msg, err := queue.NewWatermillMessage(queue.TopicRegulationUpdated, payload,
		queue.WithProducer("regvault"), queue.WithTraceID("trace-1"))
	require.NoError(t, err)
	assert.Equal(t, queue.TopicRegulationUpdated, msg.Metadata.Get("topic"))
	assert.Equal(t, "regvault", msg.Metadata.Get("producer"))
	assert.Equal(t, "trace-1", msg.Metadata.Get("trace_id"))

	env, err := queue.ParseRegulationChanged(msg)
	require.NoError(t, err)
	assert.Equal(t, payload, env.Payload)
	assert.Equal(t, queue.TopicRegulationUpdated, env.Header.Topic)
	assert.Equal(t, queue.PayloadVersionV1, env.Header.Version)
}

// TestPublishRegulationChangedTopics 发布主题按 Action 选择并能被订阅端收到.
func TestPublishRegulationChangedTopics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mq.New(ctx, &configs.MQConfig{Type: configs.MQTypeChannel})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ch, err := client.Subscribe(ctx, queue.TopicRegulationDeleted)
	require.NoError(t, err)

	err = queue.PublishRegulationChanged(ctx, client, queue.RegulationChangedPayload{
		RegulationID: 7,
		Code:         "G99",
		Action:       "delete",
	})
	require.NoError(t, err)

	select {
	case msg := <-ch:
		env, err := queue.ParseRegulationChanged(msg)
		require.NoError(t, err)
		assert.Equal(t, "delete", env.Payload.Action)
		assert.Equal(t, queue.TopicRegulationDeleted, env.Header.Topic)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no message received on delete topic")
	}
}

// TestPublishUpdateAvailable 新版本事件走固定主题.
func TestPublishUpdateAvailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mq.New(ctx, &configs.MQConfig{Type: configs.MQTypeChannel})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ch, err := client.Subscribe(ctx, queue.TopicUpdateAvailable)
	require.NoError(t, err)

	err = queue.PublishUpdateAvailable(ctx, client, queue.UpdateAvailablePayload{
		CurrentVersion: "1.1.8",
		LatestVersion:  "1.2.0",
	})
	require.NoError(t, err)

	select {
	case msg := <-ch:
		env, err := queue.ParseUpdateAvailable(msg)
		require.NoError(t, err)
		assert.Equal(t, "1.2.0", env.Payload.LatestVersion)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no message received on update topic")
	}
}
