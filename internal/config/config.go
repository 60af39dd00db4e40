package config

import (
	"net/http"
	"time"

	"github.com/namsral/flag"
	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/artifact-gateway/internal/customheaders"
)

// Config stores all the config options relevant to the artifact gateway.
type Config struct {
	General   General
	Storage   Storage
	Resolver  Resolver
	RateLimit RateLimit
	Listeners Listeners
	Log       Log
	Sentry    Sentry
}

// General groups settings that are general to the gateway and can not
// be categorized under other head.
type General struct {
	MaxConns               int
	MaxURILength           int
	MetricsAddress         string
	StatusPath             string
	ServerShutdownTimeout  time.Duration
	PropagateCorrelationID bool
	ShowVersion            bool

	DisableCrossOriginRequests bool

	CustomHeaders http.Header
}

// Storage groups settings of the store repository configuration is read from
type Storage struct {
	Type          string
	Root          string
	RedisAddress  string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Resolver groups settings of the repository handler resolution
type Resolver struct {
	Timeout time.Duration
}

// RateLimit groups settings of the per source IP rate limiter
type RateLimit struct {
	SourceIPLimitPerSecond float64
	SourceIPBurst          int
}

// Listeners holds the addresses of every listener. Proxy listeners trust
// forwarding headers, ProxyV2 listeners require the PROXY protocol.
type Listeners struct {
	HTTP    []string
	Proxy   []string
	ProxyV2 []string
}

// Len returns the number of configured listeners
func (l Listeners) Len() int {
	return len(l.HTTP) + len(l.Proxy) + len(l.ProxyV2)
}

// Log groups settings related to configuring logging
type Log struct {
	Format  string
	Verbose bool
}

// Sentry groups settings related to configuring Sentry
type Sentry struct {
	DSN         string
	Environment string
}

func loadConfig() (*Config, error) {
	config := &Config{
		General: General{
			MaxConns:                   *maxConns,
			MaxURILength:               *maxURILength,
			MetricsAddress:             *metricsAddress,
			StatusPath:                 *statusPath,
			ServerShutdownTimeout:      *serverShutdownTimeout,
			PropagateCorrelationID:     *propagateCorrelationID,
			ShowVersion:                *showVersion,
			DisableCrossOriginRequests: *disableCrossOriginRequests,
		},
		Storage: Storage{
			Type:          *configStorage,
			Root:          *configStorageRoot,
			RedisAddress:  *configStorageRedis,
			RedisPassword: *configStoragePassword,
			RedisDB:       *configStorageDB,
			RedisPrefix:   *configStoragePrefix,
		},
		Resolver: Resolver{
			Timeout: *resolveTimeout,
		},
		RateLimit: RateLimit{
			SourceIPLimitPerSecond: *rateLimitSourceIP,
			SourceIPBurst:          *rateLimitSourceIPBurst,
		},
		Listeners: Listeners{
			HTTP:    listenHTTP.Split(),
			Proxy:   listenProxy.Split(),
			ProxyV2: listenProxyv2.Split(),
		},
		Log: Log{
			Format:  *logFormat,
			Verbose: *logVerbose,
		},
		Sentry: Sentry{
			DSN:         *sentryDSN,
			Environment: *sentryEnvironment,
		},
	}

	if config.General.ShowVersion {
		return config, nil
	}

	var err error
	if config.General.CustomHeaders, err = customheaders.ParseHeaderString(header.Split()); err != nil {
		return nil, err
	}

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LogConfig dumps the effective configuration at debug level
func LogConfig(config *Config) {
	log.WithFields(log.Fields{
		"default-config-filename":       flag.DefaultConfigFlagname,
		"disable-cross-origin-requests": config.General.DisableCrossOriginRequests,
		"listen-http":                   config.Listeners.HTTP,
		"listen-proxy":                  config.Listeners.Proxy,
		"listen-proxyv2":                config.Listeners.ProxyV2,
		"log-format":                    config.Log.Format,
		"log-verbose":                   config.Log.Verbose,
		"max-conns":                     config.General.MaxConns,
		"max-uri-length":                config.General.MaxURILength,
		"header":                        config.General.CustomHeaders,
		"metrics-address":               config.General.MetricsAddress,
		"status-path":                   config.General.StatusPath,
		"propagate-correlation-id":      config.General.PropagateCorrelationID,
		"server-shutdown-timeout":       config.General.ServerShutdownTimeout,
		"config-storage":                config.Storage.Type,
		"config-storage-root":           config.Storage.Root,
		"config-storage-redis-address":  config.Storage.RedisAddress,
		"config-storage-redis-db":       config.Storage.RedisDB,
		"config-storage-redis-prefix":   config.Storage.RedisPrefix,
		"resolve-timeout":               config.Resolver.Timeout,
		"rate-limit-source-ip":          config.RateLimit.SourceIPLimitPerSecond,
		"rate-limit-source-ip-burst":    config.RateLimit.SourceIPBurst,
	}).Debug("Start daemon with configuration")
}

// LoadConfig parses configuration settings passed as command line arguments or
// via config file, and populates a Config object with those values
func LoadConfig() (*Config, error) {
	initFlags()

	return loadConfig()
}
