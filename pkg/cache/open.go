package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisURL      string `toml:"redis_url"`
	RedisPrefix   string `toml:"redis_prefix"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Open creates the backend named by cfg.Backend. An empty name means file
// when Dir is set and none otherwise.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = BackendNone
		if cfg.Dir != "" {
			backend = BackendFile
		}
	}
	switch backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache needs a directory")
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		url := cfg.RedisURL
		if url == "" {
			url = "redis://localhost:6379/0"
		}
		prefix := cfg.RedisPrefix
		if prefix == "" {
			prefix = "netgrid:"
		}
		c, err := NewRedisCache(ctx, url, prefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		uri := cfg.MongoURI
		if uri == "" {
			uri = "mongodb://localhost:27017"
		}
		db := cfg.MongoDatabase
		if db == "" {
			db = "netgrid"
		}
		c, err := NewMongoCache(ctx, uri, db)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q (must be one of: file, none, redis, mongo)", backend)
}
