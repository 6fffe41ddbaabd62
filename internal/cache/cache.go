package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	laoserrors "github.com/gil0mendes/LAOS/pkg/errors"
	"github.com/gil0mendes/LAOS/pkg/types"
)

const keyPrefix = "configure/"

// Cache keeps the last configuration of every manifest.
type Cache interface {
	Put(cfg *types.Configuration) error
	Get(manifestPath string) (*types.Configuration, error)
	List() ([]*types.Configuration, error)
	Delete(manifestPath string) error
	Close() error
}

type badgerCache struct {
	db *badger.DB
}

// Open opens, or creates, the cache database in dir.
func Open(dir string) (Cache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open configure cache: %w", err)
	}
	return &badgerCache{db: db}, nil
}

// OpenInMemory returns a cache that lives as long as the process.
func OpenInMemory() (Cache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory cache: %w", err)
	}
	return &badgerCache{db: db}, nil
}

func (c *badgerCache) Put(cfg *types.Configuration) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(cfg.ManifestPath), data)
	})
}

func (c *badgerCache) Get(manifestPath string) (*types.Configuration, error) {
	var cfg types.Configuration

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(manifestPath))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w for %s", laoserrors.ErrCacheMiss, manifestPath)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &cfg)
		})
	})
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *badgerCache) List() ([]*types.Configuration, error) {
	var configs []*types.Configuration

	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var cfg types.Configuration
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &cfg)
			}); err != nil {
				return err
			}
			configs = append(configs, &cfg)
		}
		return nil
	})

	return configs, err
}

func (c *badgerCache) Delete(manifestPath string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(manifestPath))
	})
}

func (c *badgerCache) Close() error {
	return c.db.Close()
}

func key(manifestPath string) []byte {
	return []byte(keyPrefix + manifestPath)
}

// nopCache is used when caching is disabled.
type nopCache struct{}

// Disabled returns a Cache that stores nothing.
func Disabled() Cache {
	return nopCache{}
}

func (nopCache) Put(*types.Configuration) error { return nil }

func (nopCache) Get(manifestPath string) (*types.Configuration, error) {
	return nil, fmt.Errorf("%w for %s: cache disabled", laoserrors.ErrCacheMiss, manifestPath)
}

func (nopCache) List() ([]*types.Configuration, error) { return nil, nil }
func (nopCache) Delete(string) error                   { return nil }
func (nopCache) Close() error                          { return nil }
