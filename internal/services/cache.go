package services

import (
	"context"
	"errors"
	"time"
)

var errCacheDisabled = errors.New("cache désactivé")

// JSONCache est le sous-ensemble du cache Redis utilisé par les services
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string)
}

// noCache désactive le cache quand Redis n'est pas fourni
type noCache struct{}

func (noCache) GetJSON(context.Context, string, interface{}) error {
	return errCacheDisabled
}

func (noCache) SetJSON(context.Context, string, interface{}, time.Duration) error {
	return nil
}

func (noCache) Delete(context.Context, ...string) {}

func cacheOrNoop(c JSONCache) JSONCache {
	if c == nil {
		return noCache{}
	}
	return c
}
