package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

var (
	ErrEncodeEvent  = errors.New("events: failed to encode event")
	ErrPublishEvent = errors.New("events: failed to publish event")
)

// RedisPublisher publishes JSON-encoded events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return errors.Join(ErrEncodeEvent, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return errors.Join(ErrPublishEvent, err)
	}
	return nil
}

// Subscribe decodes events from the channel until ctx is done.
// Messages that fail to decode are skipped.
func (p *RedisPublisher) Subscribe(ctx context.Context) <-chan Event {
	ps := p.client.Subscribe(ctx, p.channel)
	out := make(chan Event)
	go func() {
		defer close(out)
		defer ps.Close()
		ch := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
