package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss signale une clé absente du cache
var ErrMiss = errors.New("cache miss")

// Store regroupe les accès Redis de l'application
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Client() *redis.Client {
	return s.rdb
}

// --- Cache générique (JSON) ---

// GetJSON décode la valeur de key dans dest ; ErrMiss si la clé n'existe pas
func (s *Store) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetJSON stocke value encodée en JSON
func (s *Store) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, data, ttl).Err()
}

// Delete supprime des clés ; une erreur Redis est seulement journalisée
func (s *Store) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ Erreur suppression cache %v: %v", keys, err)
	}
}

// --- Rate Limiting ---

// IncrementRateLimit incrémente le compteur ; la fenêtre démarre au premier appel
func (s *Store) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// GetRateLimit récupère le compteur de rate limit
func (s *Store) GetRateLimit(ctx context.Context, key string) (int64, error) {
	val, err := s.rdb.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

func (s *Store) TTL(ctx context.Context, key string) time.Duration {
	d, err := s.rdb.TTL(ctx, key).Result()
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func (s *Store) SetFlag(ctx context.Context, key string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, "1", ttl).Err()
}

func (s *Store) Exists(ctx context.Context, key string) bool {
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("⚠️ Erreur vérification clé %s: %v", key, err)
		return false
	}
	return n > 0
}

// --- Blacklist JWT (révocation avant expiration) ---

// BlacklistToken révoque un JWT jusqu'à son expiration
func (s *Store) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, fmt.Sprintf("blacklist:%s", tokenID), "revoked", ttl).Err()
}

func (s *Store) IsTokenBlacklisted(ctx context.Context, tokenID string) bool {
	return s.Exists(ctx, fmt.Sprintf("blacklist:%s", tokenID))
}
