package config

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrNoListener            = errors.New("no listener defined, please specify at least one --listen-* flag")
	ErrUnsupportedStorage    = errors.New("config-storage must be one of 'disk', 'redis' or 'memory'")
	ErrStorageNoRoot         = errors.New("config-storage-root must be defined for the disk storage")
	ErrStorageNoRedisAddress = errors.New("config-storage-redis-address must be defined for the redis storage")
	ErrNegativeTimeout       = errors.New("resolve-timeout must not be negative")
	ErrNegativeMaxConns      = errors.New("max-conns must not be negative")
	ErrNegativeMaxURILength  = errors.New("max-uri-length must not be negative")
	ErrInvalidRateLimit      = errors.New("rate-limit-source-ip and rate-limit-source-ip-burst must not be negative")
	ErrInvalidLogFormat      = errors.New("log-format must be either 'text' or 'json'")
)

// Validate reports every configuration problem at once
func Validate(config *Config) error {
	var result *multierror.Error

	if config.Listeners.Len() == 0 {
		result = multierror.Append(result, ErrNoListener)
	}

	result = multierror.Append(result, validateStorageConfig(config))

	if config.Resolver.Timeout < 0 {
		result = multierror.Append(result, ErrNegativeTimeout)
	}

	if config.General.MaxConns < 0 {
		result = multierror.Append(result, ErrNegativeMaxConns)
	}

	if config.General.MaxURILength < 0 {
		result = multierror.Append(result, ErrNegativeMaxURILength)
	}

	if config.RateLimit.SourceIPLimitPerSecond < 0 || config.RateLimit.SourceIPBurst < 0 {
		result = multierror.Append(result, ErrInvalidRateLimit)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		result = multierror.Append(result, fmt.Errorf("%w: got %q", ErrInvalidLogFormat, config.Log.Format))
	}

	return result.ErrorOrNil()
}

func validateStorageConfig(config *Config) error {
	switch config.Storage.Type {
	case "memory":
		return nil
	case "disk":
		if config.Storage.Root == "" {
			return ErrStorageNoRoot
		}
	case "redis":
		if config.Storage.RedisAddress == "" {
			return ErrStorageNoRedisAddress
		}
	default:
		return fmt.Errorf("%w: got %q", ErrUnsupportedStorage, config.Storage.Type)
	}

	return nil
}
