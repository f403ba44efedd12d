package models

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const cacheTTL = 30 * time.Minute

// Links is the link service: it fronts a Store with an optional redis cache
// and publishes hits onto an optional feed. Cache population failures are
// logged, never surfaced; the store stays authoritative.
type Links struct {
	store Store
	cache *redis.Client
	feed  *Feed
	log   *zap.Logger
}

// NewLinks builds the service. cache and feed may be nil.
func NewLinks(log *zap.Logger, store Store, cache *redis.Client, feed *Feed) *Links {
	return &Links{store: store, cache: cache, feed: feed, log: log}
}

// Feed exposes the hit feed, nil when the service runs without redis.
func (l *Links) Feed() *Feed {
	return l.feed
}

// Generate creates a new link pointing at target, optionally expiring.
func (l *Links) Generate(ctx context.Context, target string, expiry *time.Time) (*Link, error) {
	if expiry != nil && time.Now().After(*expiry) {
		return nil, errors.New("expiry time is invalid")
	}

	link := &Link{Target: target, Active: true, Expiry: expiry}
	if err := l.store.Create(ctx, link); err != nil {
		return nil, errors.Wrap(err, "l.store.Create")
	}

	l.cacheLink(ctx, *link)
	return link, nil
}

// Resolve looks a link up by code, cache first. An inactive or outlived link
// resolves to ErrExpired, an unknown code to ErrNotFound. With hit set, the
// hit counter is incremented and the hit published on the feed.
func (l *Links) Resolve(ctx context.Context, code string, hit bool) (*Link, error) {
	if l.cache != nil {
		probe := Link{Code: code}
		cached, err := l.cache.Get(ctx, probe.CacheKey()).Result()
		if err != nil && err != redis.Nil {
			return nil, errors.Wrap(err, "l.cache.Get")
		}
		if len(cached) != 0 {
			link := &Link{}
			if err := link.Unmarshall(cached); err != nil {
				return nil, errors.Wrap(err, "link.Unmarshall")
			}
			if link.IsExpired() {
				return nil, ErrExpired
			}
			if hit {
				if err := l.hit(ctx, code); err != nil {
					return nil, err
				}
			}
			return link, nil
		}
	}

	link, err := l.store.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if link.IsExpired() {
		return nil, ErrExpired
	}

	if hit {
		if err := l.hit(ctx, code); err != nil {
			return nil, err
		}
	}

	l.cacheLink(ctx, *link)
	return link, nil
}

// Deactivate soft deletes a link: the row stays, resolution reports
// ErrExpired from then on.
func (l *Links) Deactivate(ctx context.Context, code string) (*Link, error) {
	link, err := l.Resolve(ctx, code, false)
	if err != nil && !errors.Is(err, ErrExpired) {
		return nil, err
	}
	if link == nil {
		// Expired via the cache path; fall back to the store row.
		if link, err = l.store.FindByCode(ctx, code); err != nil {
			return nil, err
		}
	}

	link.Active = false
	if err := l.store.Save(ctx, link); err != nil {
		return nil, err
	}

	l.cacheLink(ctx, *link)
	return link, nil
}

// List returns links filtered by exact code and/or target keyword.
func (l *Links) List(ctx context.Context, code, term string) ([]Link, error) {
	return l.store.List(ctx, code, term)
}

func (l *Links) hit(ctx context.Context, code string) error {
	if err := l.store.Hit(ctx, code); err != nil {
		return err
	}
	if l.feed != nil {
		if err := l.feed.Publish(ctx, code); err != nil {
			l.log.With(zap.Error(err)).Error("l.feed.Publish")
		}
	}
	return nil
}

func (l *Links) cacheLink(ctx context.Context, link Link) {
	if l.cache == nil {
		return
	}

	encoded, err := link.Marshall()
	if err != nil {
		l.log.With(zap.Error(err)).Error("link.Marshall")
		return
	}
	if _, err := l.cache.Set(ctx, link.CacheKey(), encoded, cacheTTL).Result(); err != nil {
		l.log.With(zap.Error(err)).Error("l.cache.Set")
	}
}
