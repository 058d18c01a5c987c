package khadamat

import "go.uber.org/zap"

const (
	driverMemory   = "memory"
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver         string
	dsn            string
	catalogPath    string
	variantsPath   string
	serviceBaseURL string
	defaultLimit   int
	records        []Service
	logger         *zap.Logger
}

// WithMemory keeps records in process. This is the default.
func WithMemory() Option {
	return func(c *clientConfig) {
		c.driver = driverMemory
		c.dsn = ""
	}
}

// WithSQLite stores records in the SQLite file at path.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.driver = driverSQLite
		c.dsn = path
	}
}

// WithPostgres stores records in the Postgres database at dsn.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.driver = driverPostgres
		c.dsn = dsn
	}
}

// WithCatalogFile seeds the store from a catalog YAML file on New.
func WithCatalogFile(path string) Option {
	return func(c *clientConfig) { c.catalogPath = path }
}

// WithServices seeds the store with services on New.
func WithServices(services ...Service) Option {
	return func(c *clientConfig) { c.records = append(c.records, services...) }
}

// WithVariantsFile replaces the built-in spelling variant table.
func WithVariantsFile(path string) Option {
	return func(c *clientConfig) { c.variantsPath = path }
}

// WithServiceBaseURL sets the link prefix for services without an official URL.
func WithServiceBaseURL(url string) Option {
	return func(c *clientConfig) { c.serviceBaseURL = url }
}

// WithDefaultLimit sets the result count used when Search gets a zero limit.
func WithDefaultLimit(n int) Option {
	return func(c *clientConfig) { c.defaultLimit = n }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
