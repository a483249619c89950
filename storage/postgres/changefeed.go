package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nearbyserve/config"
	"nearbyserve/pkg/logger"
	"nearbyserve/storage"
)

const changeChannel = "nearbyserve:changes"

// changeFeed broadcasts collection mutations over a Redis channel so other
// backend instances see them without polling. Redis is optional: with no
// REDIS_HOST configured the feed is silent and consumers fall back to
// polling the store.
type changeFeed struct {
	rdb *redis.Client
	log logger.ILogger
}

func newChangeFeed(ctx context.Context, cfg config.Config, log logger.ILogger) (*changeFeed, error) {
	if cfg.RedisHost == "" {
		log.Info("redis not configured, change feed disabled")
		return &changeFeed{log: log}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect Redis", logger.Error(err))
		return nil, err
	}

	log.Info("Redis change feed connected")
	return &changeFeed{rdb: rdb, log: log}, nil
}

func (f *changeFeed) publish(collection string) {
	if f.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := f.rdb.Publish(ctx, changeChannel, collection).Err(); err != nil {
		f.log.Warning("failed to publish change", logger.String("collection", collection), logger.Error(err))
	}
}

func (f *changeFeed) changes(ctx context.Context) (<-chan storage.Change, error) {
	out := make(chan storage.Change, 16)

	if f.rdb == nil {
		go func() {
			<-ctx.Done()
			close(out)
		}()
		return out, nil
	}

	sub := f.rdb.Subscribe(ctx, changeChannel)
	if _, err := sub.Receive(ctx); err != nil {
		return nil, err
	}

	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- storage.Change{Collection: msg.Payload, At: time.Now()}:
				default:
				}
			}
		}
	}()

	return out, nil
}

func (f *changeFeed) close() {
	if f.rdb != nil {
		_ = f.rdb.Close()
	}
}
