package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("Not Found")
	ErrExpired  = errors.New("Expired")
)

// Link is one shortened link: a generated code pointing at a target URL.
type Link struct {
	ID        int        `gorm:"primaryKey;autoIncrement" bson:"id" json:"id"`
	Code      string     `gorm:"index;not null;unique" bson:"code" json:"code"`
	Target    string     `gorm:"not null" bson:"target" json:"target"`
	Hits      uint       `gorm:"default:0" bson:"hits" json:"hits"`
	Expiry    *time.Time `bson:"expiry,omitempty" json:"expiry,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" bson:"created_at" json:"created_at"`
	Active    bool       `gorm:"default:1" bson:"active" json:"active"`
}

// CacheKey returns the redis key the link is cached under.
func (l Link) CacheKey() string {
	return strings.Join([]string{"link", l.Code}, "-")
}

// Marshall encodes the link into a JSON string for the cache layer.
func (l Link) Marshall() (string, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return "", errors.Wrap(err, "json.Marshal")
	}
	return string(b), nil
}

// Unmarshall decodes a cached JSON string into the link.
func (l *Link) Unmarshall(encoded string) error {
	if err := json.Unmarshal([]byte(encoded), l); err != nil {
		return errors.Wrap(err, "json.Unmarshal")
	}
	return nil
}

// IsExpired reports whether the link has been deactivated or outlived its
// expiry time.
func (l Link) IsExpired() bool {
	return !l.Active || (l.Expiry != nil && time.Now().After(*l.Expiry))
}
