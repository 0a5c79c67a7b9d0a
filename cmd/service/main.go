package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/2beens/fittrack/internal"
	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/logging"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	printVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	versionInfo := resolveVersion()
	if *printVersion {
		fmt.Println(versionInfo)
		return
	}

	if err := run(*env, *configPath, versionInfo); err != nil {
		log.Errorf("fittrack service: %s", err)
		os.Exit(1)
	}
}

func run(env, configPath, versionInfo string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		return fmt.Errorf("load secrets: %w", err)
	}

	closeLogs := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		Release:          versionInfo,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        secrets.SentryDSN,
		SentryServerName: "fittrack-service",
	})
	defer closeLogs()

	log.Infof("fittrack [%s] starting in [%s] environment, version [%s]", cfg.Host, cfg.Environment, versionInfo)
	log.Debugf("using port: %d, logs path: [%s]", cfg.Port, cfg.LogsPath)
	warnMissingSecrets(secrets)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:      cfg,
			Secrets:     secrets,
			VersionInfo: versionInfo,
		},
	)
	if err != nil {
		return fmt.Errorf("new server: %w", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	<-ctx.Done()
	log.Warnf("shutdown signal received, stopping ...")
	server.GracefulShutdown()
	return nil
}

func warnMissingSecrets(secrets *config.Secrets) {
	if secrets.DBPassword == "" {
		log.Warnf("db password not set, use %s_DB_PASSWORD to set it", config.EnvPrefix)
	}
	if secrets.RedisPassword == "" {
		log.Warnf("redis password not set, use %s_REDIS_PASSWORD to set it", config.EnvPrefix)
	}
	if !secrets.HoneycombEnabled {
		log.Debugln("honeycomb tracing disabled")
		return
	}
	if secrets.HoneycombAPIKey == "" {
		log.Warnf("%s_HONEYCOMB_API_KEY env var not set", config.EnvPrefix)
	}
	if os.Getenv("OTEL_SERVICE_NAME") == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}
}

// resolveVersion prefers the linked in version and falls back to the commit
// of the checkout the binary runs from.
func resolveVersion() string {
	if version != "" {
		return version
	}
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(pkg.BytesToString(out))
}
