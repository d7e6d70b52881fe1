// Package redis connects to Redis with github.com/redis/go-redis/v9.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Connect retries failed pings with a fixed interval, bounded by ConnectTimeout.
package redis
