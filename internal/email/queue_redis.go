package email

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultQueueKey = "mail:outbox"

// RedisQueue pushes messages onto a Redis list and consumes them with
// a blocking pop, so delivery survives process restarts and can be
// drained by any number of workers.
type RedisQueue struct {
	client    *redis.Client
	key       string
	deliverer Deliverer
}

func NewRedisQueue(client *redis.Client, key string, d Deliverer) *RedisQueue {
	if key == "" {
		key = defaultQueueKey
	}
	return &RedisQueue{client: client, key: key, deliverer: d}
}

func (q *RedisQueue) Enqueue(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, payload).Err()
}

// Run consumes tasks until ctx is cancelled. Undecodable payloads and
// delivery failures are logged and dropped.
func (q *RedisQueue) Run(ctx context.Context) {
	for {
		res, err := q.client.BRPop(ctx, 5*time.Second, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("mail: queue pop failed: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if len(res) != 2 {
			continue
		}

		var msg Message
		if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
			log.Printf("mail: dropping undecodable task: %v", err)
			continue
		}
		if err := q.deliverer.Send(ctx, msg.To, msg.Subject, msg.HTML); err != nil {
			log.Printf("mail: delivery to %s failed: %v", msg.To, err)
		}
	}
}
