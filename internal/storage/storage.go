// Package storage provides the durable key/value storage behind the
// credential store, session values and the offline booking cache. It is the
// Go stand-in for the browser's localStorage/sessionStorage.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend is a string-keyed byte store.
type Backend interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// ClosableBackend is a Backend owning connections or files.
type ClosableBackend interface {
	Backend
	io.Closer
}

// Options selects and configures a backend.
type Options struct {
	Backend       string // memory, sqlite or redis
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	TTL           time.Duration
}

// Open builds the backend named in opts.
func Open(ctx context.Context, opts Options) (ClosableBackend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		return OpenSQLite(ctx, opts.Path)
	case "redis":
		redisOpts := &redis.Options{Addr: opts.RedisAddr, Password: opts.RedisPassword}
		if opts.RedisTLS {
			redisOpts.TLSConfig = tlsConfig()
		}
		client := redis.NewClient(redisOpts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("storage: ping redis %s: %w", opts.RedisAddr, err)
		}
		return NewRedis(client, opts.TTL), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", opts.Backend)
	}
}

type namespaced struct {
	backend Backend
	prefix  string
}

// Namespace scopes every key of backend under prefix.
func Namespace(backend Backend, prefix string) Backend {
	return &namespaced{backend: backend, prefix: prefix}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.backend.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.backend.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, keys ...string) error {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = n.prefix + k
	}
	return n.backend.Delete(ctx, scoped...)
}

// GetJSON decodes the value under key into out.
func GetJSON(ctx context.Context, b Backend, key string, out any) (bool, error) {
	data, ok, err := b.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("storage: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, b Backend, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	return b.Set(ctx, key, data)
}
