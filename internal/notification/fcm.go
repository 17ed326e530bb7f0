package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// fcmBatchSize is the FCM multicast limit.
const fcmBatchSize = 500

// Pusher sends mobile push notifications to device tokens.
type Pusher interface {
	Push(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

type fcmPusher struct {
	client *messaging.Client
}

// NewPusher wraps an FCM client. A nil client disables push.
func NewPusher(client *messaging.Client) Pusher {
	if client == nil {
		return nopPusher{}
	}
	return &fcmPusher{client: client}
}

func (p *fcmPusher) Push(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	var failed int
	for start := 0; start < len(tokens); start += fcmBatchSize {
		end := start + fcmBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		resp, err := p.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens: tokens[start:end],
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		})
		if err != nil {
			return fmt.Errorf("fcm multicast failed: %w", err)
		}
		failed += resp.FailureCount
	}
	if failed > 0 {
		return fmt.Errorf("fcm: %d of %d pushes failed", failed, len(tokens))
	}
	return nil
}

type nopPusher struct{}

func (nopPusher) Push(context.Context, []string, string, string, map[string]string) error {
	return nil
}
