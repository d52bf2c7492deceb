package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Channel is the Redis pub/sub channel for productsUpdated hints.
const Channel = "storefront:products-updated"

// RedisBus publishes productsUpdated over Redis pub/sub so views served
// by other processes can refetch too.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

func (b *RedisBus) Publish(source string) error {
	payload, err := json.Marshal(ProductsUpdated{Source: source, At: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to encode productsUpdated: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.client.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish productsUpdated: %w", err)
	}
	return nil
}

// Listen subscribes to the channel and forwards decoded hints until ctx
// is done. Undecodable payloads are skipped; the hint carries no data a
// listener could miss.
func (b *RedisBus) Listen(ctx context.Context, out chan<- ProductsUpdated) error {
	sub := b.client.Subscribe(ctx, Channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var evt ProductsUpdated
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				continue
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
