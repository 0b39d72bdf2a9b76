package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelSlotOccupancy = "slot_occupancy"
)

// OccupancyMessage 时段占用变化消息。订阅被取消/加量获批/标记配送后
// 由服务端发布，WebSocket 网关转发给管理端实时面板。
type OccupancyMessage struct {
	Type               string `json:"type"`
	SlotID             int64  `json:"slot_id"`
	AreaID             int64  `json:"area_id,omitempty"`
	OccupiedLiters     int    `json:"occupied_liters"`
	BookedCount        int    `json:"booked_count"`
	Status             string `json:"status"`
	ProgressPercentage string `json:"progress_percentage"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishOccupancy 发布占用变化消息
func (p *Publisher) PublishOccupancy(ctx context.Context, msg *OccupancyMessage) error {
	msg.Type = "slot_occupancy"

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal occupancy message: %w", err)
	}

	return p.client.Publish(ctx, ChannelSlotOccupancy, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅占用变化消息
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*OccupancyMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelSlotOccupancy)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var occMsg OccupancyMessage
			if err := json.Unmarshal([]byte(msg.Payload), &occMsg); err != nil {
				continue // 忽略解析错误
			}

			handler(&occMsg)
		}
	}
}
