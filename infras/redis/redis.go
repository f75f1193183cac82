package redis

import (
	"context"
	"net"
	"time"

	"inap/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

// New connects to the primary instance. It returns nil when caching is disabled, and the
// cache layer then falls back to a no-op store.
func New(cfg *config.Config) *goRedis.Client {
	if !cfg.Cache.Enable {
		log.Info().Msg("cache disabled, skipping redis connection")

		return nil
	}

	primary := cfg.Cache.Redis.Primary

	client := goRedis.NewClient(&goRedis.Options{
		Addr:     net.JoinHostPort(primary.Host, primary.Port),
		Password: primary.Password,
		DB:       primary.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", client.Options().Addr).Msg("failed to connect to redis")
	}

	log.Info().Str("addr", client.Options().Addr).Int("db", primary.DB).Msg("connected to redis")

	return client
}
