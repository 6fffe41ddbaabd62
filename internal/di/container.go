package di

import (
	"errors"
	"sync"

	"github.com/gil0mendes/LAOS/internal/cache"
	"github.com/gil0mendes/LAOS/internal/config"
	"github.com/gil0mendes/LAOS/internal/logging"
	"github.com/gil0mendes/LAOS/internal/services"
	"github.com/gil0mendes/LAOS/pkg/buildutil"
	"go.uber.org/dig"
)

// Container manages dependency injection for the application
type Container struct {
	dig *dig.Container

	mu      sync.Mutex
	closers []func() error
}

// Option customizes the container before it is built
type Option func(*options)

type options struct {
	host buildutil.Host
}

// WithHost replaces the operating system as seen by the locator
func WithHost(host buildutil.Host) Option {
	return func(o *options) {
		o.host = host
	}
}

// NewContainer builds the container. Nothing is constructed until it is
// first requested.
func NewContainer(cfg *config.Config, logger logging.Logger, opts ...Option) (*Container, error) {
	o := &options{host: buildutil.OSHost{}}
	for _, opt := range opts {
		opt(o)
	}

	c := &Container{dig: dig.New()}

	// Register configuration
	if err := c.dig.Provide(func() *config.Config {
		return cfg
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := c.dig.Provide(func() logging.Logger {
		return logger
	}); err != nil {
		return nil, err
	}

	// Register host and locator
	if err := c.dig.Provide(func() buildutil.Host {
		return o.host
	}); err != nil {
		return nil, err
	}
	if err := c.dig.Provide(buildutil.NewLocator); err != nil {
		return nil, err
	}

	// Register configure cache
	if err := c.dig.Provide(c.openCache); err != nil {
		return nil, err
	}

	// Register services
	if err := c.dig.Provide(func(
		locator *buildutil.Locator,
		store cache.Cache,
		logger logging.Logger,
		cfg *config.Config,
	) services.ConfigureService {
		return services.NewConfigureService(locator, store, logger, cfg.Probe.Timeout)
	}); err != nil {
		return nil, err
	}
	if err := c.dig.Provide(services.NewProjectService); err != nil {
		return nil, err
	}

	return c, nil
}

// openCache opens the on-disk cache. A cache that cannot be opened, for
// instance because another process holds its lock, is replaced by a disabled
// one.
func (c *Container) openCache(cfg *config.Config, logger logging.Logger) cache.Cache {
	if !cfg.Cache.Enabled {
		return cache.Disabled()
	}

	store, err := cache.Open(config.ExpandHome(cfg.Cache.Dir))
	if err != nil {
		logger.Warnf("configure cache disabled: %v", err)
		return cache.Disabled()
	}

	c.mu.Lock()
	c.closers = append(c.closers, store.Close)
	c.mu.Unlock()
	return store
}

// Close releases what the container opened
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, closer := range c.closers {
		errs = append(errs, closer())
	}
	c.closers = nil
	return errors.Join(errs...)
}

// GetConfigureService retrieves the ConfigureService from the container.
func (c *Container) GetConfigureService() (services.ConfigureService, error) {
	var service services.ConfigureService
	if err := c.dig.Invoke(func(svc services.ConfigureService) {
		service = svc
	}); err != nil {
		return nil, err
	}
	return service, nil
}

// GetProjectService retrieves the ProjectService from the container.
func (c *Container) GetProjectService() (services.ProjectService, error) {
	var service services.ProjectService
	if err := c.dig.Invoke(func(svc services.ProjectService) {
		service = svc
	}); err != nil {
		return nil, err
	}
	return service, nil
}

// GetLocator retrieves the executable locator from the container.
func (c *Container) GetLocator() (*buildutil.Locator, error) {
	var locator *buildutil.Locator
	if err := c.dig.Invoke(func(l *buildutil.Locator) {
		locator = l
	}); err != nil {
		return nil, err
	}
	return locator, nil
}

// GetCache retrieves the configure cache from the container.
func (c *Container) GetCache() (cache.Cache, error) {
	var store cache.Cache
	if err := c.dig.Invoke(func(s cache.Cache) {
		store = s
	}); err != nil {
		return nil, err
	}
	return store, nil
}
