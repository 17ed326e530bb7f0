package notification

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// UserChannel is the pub/sub channel carrying one user's notifications.
func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// RoleChannel carries notifications addressed to a role (or "all").
func RoleChannel(role string) string {
	return "notifications:role:" + role
}

// Publisher fans notification payloads out to live subscribers.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Subscriber opens a subscription over one or more channels. Messages are
// delivered until the returned close func is called.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) (<-chan string, func() error)
}

type RedisPubSub struct {
	client *redis.Client
}

// NewRedisPubSub implements Publisher and Subscriber over Redis pub/sub.
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{client: client}
}

func (p *RedisPubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Publish(ctx, channel, payload).Err()
}

func (p *RedisPubSub) Subscribe(ctx context.Context, channels ...string) (<-chan string, func() error) {
	sub := p.client.Subscribe(ctx, channels...)
	out := make(chan string)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, sub.Close
}

type NopPubSub struct{}

// NewNopPubSub is used when Redis is unavailable. Subscriptions stay open
// but never deliver.
func NewNopPubSub() NopPubSub { return NopPubSub{} }

func (NopPubSub) Publish(context.Context, string, []byte) error { return nil }

func (NopPubSub) Subscribe(ctx context.Context, _ ...string) (<-chan string, func() error) {
	return make(chan string), func() error { return nil }
}
