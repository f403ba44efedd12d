package libs

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"golang.org/x/net/context"
)

const (
	keyMongoUri = "mongo.uri"
	// KeyMongoDb names the database the application stores into.
	KeyMongoDb = "mongo.db"
)

// NewMongoFromViper connects a mongo client with config from viper and
// verifies the primary is reachable.
func NewMongoFromViper(log *zap.Logger) (*mongo.Client, error) {
	if err := requireKeys(keyMongoUri, KeyMongoDb); err != nil {
		return nil, err
	}

	client, err := mongo.NewClient(
		options.Client().ApplyURI(fmt.Sprintf("mongodb://%s", viper.GetString(keyMongoUri))),
	)
	if err != nil {
		return nil, errors.Wrap(err, "mongo.NewClient")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		return nil, errors.Wrap(err, "client.Connect")
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, errors.Wrap(err, "client.Ping")
	}

	log.Debug("Mongo connection established", zap.String("db", viper.GetString(KeyMongoDb)))
	return client, nil
}
