package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/errortracking"

	"gitlab.com/gitlab-org/artifact-gateway/internal/config"
	"gitlab.com/gitlab-org/artifact-gateway/internal/logging"
)

// VERSION stores the information about the semantic version of application
var VERSION = "dev"

// REVISION stores the information about the git revision of application
var REVISION = "HEAD"

func initErrorReporting(sentryDSN, sentryEnvironment string) error {
	return errortracking.Initialize(
		errortracking.WithSentryDSN(sentryDSN),
		errortracking.WithVersion(fmt.Sprintf("%s-%s", VERSION, REVISION)),
		errortracking.WithLoggerName("artifact-gateway"),
		errortracking.WithSentryEnvironment(sentryEnvironment))
}

func printVersion(showVersion bool, version string) {
	if showVersion {
		fmt.Fprintln(os.Stdout, version)
		os.Exit(0)
	}
}

func appMain() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	printVersion(cfg.General.ShowVersion, VERSION)

	if err := logging.ConfigureLogging(cfg.Log.Format, cfg.Log.Verbose); err != nil {
		log.WithError(err).Fatal("Failed to initialize logging")
	}

	if cfg.Sentry.DSN != "" {
		if err := initErrorReporting(cfg.Sentry.DSN, cfg.Sentry.Environment); err != nil {
			log.WithError(err).Warn("Failed to initialize error reporting")
		}
	}

	log.WithFields(log.Fields{
		"version":  VERSION,
		"revision": REVISION,
	}).Print("Artifact Gateway")

	config.LogConfig(cfg)

	if err := runApp(cfg); err != nil {
		log.WithError(err).Fatal("Artifact gateway stopped")
	}
}

func main() {
	log.SetOutput(os.Stderr)

	appMain()
}
