package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shaogx/bocadillo/libs"
)

// Hit is one recorded resolution of a link, broadcast to watchers.
type Hit struct {
	Code string    `json:"code"`
	At   time.Time `json:"at"`
}

// Feed broadcasts link hits over redis pub/sub so watchers can stream them
// live, one channel per code.
type Feed struct {
	client *redis.Client
	log    *zap.Logger
}

// NewFeed returns a feed over client.
func NewFeed(client *redis.Client, log *zap.Logger) *Feed {
	return &Feed{client: client, log: log}
}

func (f *Feed) channel(code string) string {
	return "links:hits:" + code
}

// Publish broadcasts a hit for code.
func (f *Feed) Publish(ctx context.Context, code string) error {
	payload, err := json.Marshal(Hit{Code: code, At: time.Now().UTC()})
	if err != nil {
		return errors.Wrap(err, "json.Marshal")
	}
	if err := f.client.Publish(ctx, f.channel(code), payload).Err(); err != nil {
		return errors.Wrap(err, "f.client.Publish")
	}
	return nil
}

// Subscribe streams hits for code until ctx is done or the returned closer
// runs. The channel closes when the subscription ends.
func (f *Feed) Subscribe(ctx context.Context, code string) (<-chan Hit, func() error) {
	sub := f.client.Subscribe(ctx, f.channel(code))
	hits := make(chan Hit)

	go libs.RecoverLog(f.log, func() {
		defer close(hits)
		for msg := range sub.Channel() {
			var hit Hit
			if err := json.Unmarshal([]byte(msg.Payload), &hit); err != nil {
				f.log.With(zap.Error(err)).Error("decode hit")
				continue
			}
			select {
			case hits <- hit:
			case <-ctx.Done():
				return
			}
		}
	})

	return hits, sub.Close
}
