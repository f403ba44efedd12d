package libs

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// KeyRedisAddr is the viper key that enables the redis layer.
	KeyRedisAddr = "redis.addr"
	keyRedisUser = "redis.user"
	keyRedisPwd  = "redis.pwd"
	keyRedisDb   = "redis.db"
)

// NewRedisFromViper builds a redis client from viper config and pings it.
func NewRedisFromViper(log *zap.Logger) (*redis.Client, error) {
	if err := requireKeys(KeyRedisAddr); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     viper.GetString(KeyRedisAddr),
		Username: viper.GetString(keyRedisUser),
		Password: viper.GetString(keyRedisPwd),
		DB:       viper.GetInt(keyRedisDb),
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, errors.Wrap(err, "client.Ping")
	}

	log.Debug("Redis connection established", zap.String("addr", viper.GetString(KeyRedisAddr)))
	return client, nil
}
