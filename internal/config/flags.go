package config

import (
	"time"

	"github.com/namsral/flag"
)

var (
	metricsAddress             = flag.String("metrics-address", "", "The address to listen on for metrics requests")
	statusPath                 = flag.String("status-path", "", "The url path for a status page, e.g., /@status")
	maxConns                   = flag.Int("max-conns", 0, "Limit on the number of concurrent connections to the HTTP and proxy listeners, 0 for no limit")
	disableCrossOriginRequests = flag.Bool("disable-cross-origin-requests", false, "Disable cross-origin requests")
	propagateCorrelationID     = flag.Bool("propagate-correlation-id", false, "Reuse existing Correlation-ID from the incoming request header `X-Request-ID` if present")
	serverShutdownTimeout      = flag.Duration("server-shutdown-timeout", 30*time.Second, "Artifact gateway server shutdown timeout (default: 30s)")
	maxURILength               = flag.Int("max-uri-length", 2048, "Limit the length of URI, 0 for unlimited.")
	showVersion                = flag.Bool("version", false, "Show version")

	// Repository configuration storage
	configStorage         = flag.String("config-storage", "disk", "Where repository configuration is read from: 'disk', 'redis' or 'memory'")
	configStorageRoot     = flag.String("config-storage-root", "repos", "The directory holding one <repository>.yaml file per repository, used by the disk storage")
	configStorageRedis    = flag.String("config-storage-redis-address", "", "The address of the Redis server used by the redis storage")
	configStoragePassword = flag.String("config-storage-redis-password", "", "The password of the Redis server used by the redis storage")
	configStorageDB       = flag.Int("config-storage-redis-db", 0, "The Redis database used by the redis storage")
	configStoragePrefix   = flag.String("config-storage-redis-prefix", "", "A prefix added to every repository key read from Redis")
	resolveTimeout        = flag.Duration("resolve-timeout", 30*time.Second, "The maximum time to wait for a repository configuration, 0 waits forever")

	// HTTP rate limits
	rateLimitSourceIP      = flag.Float64("rate-limit-source-ip", 0.0, "Rate limit HTTP requests per second from a single IP, 0 means is disabled")
	rateLimitSourceIPBurst = flag.Int("rate-limit-source-ip-burst", 100, "Rate limit HTTP requests from a single IP, maximum burst allowed per second")

	logFormat         = flag.String("log-format", "json", "The log output format: 'text' or 'json'")
	logVerbose        = flag.Bool("log-verbose", false, "Verbose logging")
	sentryDSN         = flag.String("sentry-dsn", "", "The address for sending sentry crash reporting to")
	sentryEnvironment = flag.String("sentry-environment", "", "The environment for sentry crash reporting")

	// See initFlags()
	listenHTTP    = MultiStringFlag{separator: ","}
	listenProxy   = MultiStringFlag{separator: ","}
	listenProxyv2 = MultiStringFlag{separator: ","}

	header = MultiStringFlag{separator: ";;"}
)

// initFlags will be called from LoadConfig
func initFlags() {
	flag.Var(&listenHTTP, "listen-http", "The address(es) to listen on for HTTP requests")
	flag.Var(&listenProxy, "listen-proxy", "The address(es) to listen on for requests forwarded by a reverse proxy")
	flag.Var(&listenProxyv2, "listen-proxyv2", "The address(es) to listen on for PROXYv2 requests (https://www.haproxy.org/download/1.8/doc/proxy-protocol.txt)")
	flag.Var(&header, "header", "The additional http header(s) that should be send to the client")

	// read from -config=/path/to/artifact-gateway-config
	flag.String(flag.DefaultConfigFlagname, "", "path to config file")

	flag.Parse()
}
