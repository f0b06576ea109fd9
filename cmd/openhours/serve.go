package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/LerianStudio/lib-openhours/openhours"
	"github.com/LerianStudio/lib-openhours/openhours/assert"
	"github.com/LerianStudio/lib-openhours/openhours/catalog"
	"github.com/LerianStudio/lib-openhours/openhours/log"
	httpapi "github.com/LerianStudio/lib-openhours/openhours/net/http"
	"github.com/LerianStudio/lib-openhours/openhours/opentelemetry"
	"github.com/LerianStudio/lib-openhours/openhours/runtime"
	"github.com/LerianStudio/lib-openhours/openhours/server"
	libZap "github.com/LerianStudio/lib-openhours/openhours/zap"
)

const applicationName = "openhours"

// Config is the top level configuration struct for the serve command.
type Config struct {
	EnvName                 string `env:"ENV_NAME"`
	LogLevel                string `env:"LOG_LEVEL"`
	ServerAddress           string `env:"SERVER_ADDRESS"`
	CatalogPath             string `env:"CATALOG_PATH"`
	OtelServiceName         string `env:"OTEL_RESOURCE_SERVICE_NAME"`
	OtelLibraryName         string `env:"OTEL_LIBRARY_NAME"`
	OtelServiceVersion      string `env:"OTEL_RESOURCE_SERVICE_VERSION"`
	OtelDeploymentEnv       string `env:"OTEL_RESOURCE_DEPLOYMENT_ENVIRONMENT"`
	OtelColExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	EnableTelemetry         bool   `env:"ENABLE_TELEMETRY"`
}

func defaultConfig() Config {
	return Config{
		EnvName:            "local",
		ServerAddress:      ":8080",
		OtelServiceName:    applicationName,
		OtelLibraryName:    "github.com/LerianStudio/lib-openhours",
		OtelServiceVersion: "0.0.0",
		OtelDeploymentEnv:  "local",
	}
}

// loadConfig reads the environment, then lets serve flags override it.
func loadConfig(args []string, stderr io.Writer) (Config, error) {
	openhours.InitLocalEnvConfig()

	cfg := defaultConfig()
	if err := openhours.SetConfigFromEnvVars(&cfg); err != nil {
		return Config{}, err
	}

	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.ServerAddress, "addr", cfg.ServerAddress, "listen address")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "YAML catalog of places")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %w", errUsage, err)
	}

	return cfg, nil
}

// loadCatalog reads the catalog at path, or returns an empty one when no
// path is configured.
func loadCatalog(ctx context.Context, path string, logger log.Logger) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Empty(), nil
	}

	places, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx, log.LevelInfo, "catalog loaded",
		log.String("path", path),
		log.Int("places", places.Len()),
	)

	return places, nil
}

// releaseOnError flushes telemetry and the logger when startup fails before
// the launcher takes ownership of them.
func releaseOnError(ctx context.Context, telemetry *opentelemetry.Telemetry, logger log.Logger) {
	if err := telemetry.ShutdownTelemetryWithContext(ctx); err != nil {
		logger.Log(ctx, log.LevelError, "telemetry shutdown failed", log.Err(err))
	}

	_ = logger.Sync(ctx)
}

func runServe(args []string, stderr io.Writer) error {
	cfg, err := loadConfig(args, stderr)
	if err != nil {
		return err
	}

	ctx := context.Background()
	environment := libZap.ParseEnvironment(cfg.EnvName)
	runtime.SetProductionMode(environment == libZap.EnvironmentProduction)

	logger, err := libZap.New(libZap.Config{
		Environment:     environment,
		Level:           cfg.LogLevel,
		OTelLibraryName: cfg.OtelLibraryName,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	places, err := loadCatalog(ctx, cfg.CatalogPath, logger)
	if err != nil {
		_ = logger.Sync(ctx)

		return err
	}

	telemetry, err := opentelemetry.NewTelemetry(opentelemetry.TelemetryConfig{
		LibraryName:               cfg.OtelLibraryName,
		ServiceName:               cfg.OtelServiceName,
		ServiceVersion:            cfg.OtelServiceVersion,
		DeploymentEnv:             cfg.OtelDeploymentEnv,
		CollectorExporterEndpoint: cfg.OtelColExporterEndpoint,
		EnableTelemetry:           cfg.EnableTelemetry,
		Logger:                    logger,
	})
	if err != nil {
		_ = logger.Sync(ctx)

		return fmt.Errorf("init telemetry: %w", err)
	}

	launched := false

	defer func() {
		if !launched {
			releaseOnError(ctx, telemetry, logger)
		}
	}()

	telemetry.ApplyGlobals()

	reporter, err := opentelemetry.NewPanicReporter(telemetry.LoggerProvider, cfg.OtelLibraryName)
	if err != nil {
		return fmt.Errorf("init panic reporter: %w", err)
	}

	runtime.SetErrorReporter(reporter)

	meter, err := telemetry.Meter(cfg.OtelLibraryName)
	if err != nil {
		return fmt.Errorf("init meter: %w", err)
	}

	if err := assert.InitAssertionMetrics(meter); err != nil {
		return fmt.Errorf("init assertion metrics: %w", err)
	}

	runtime.InitPanicMetrics(meter, logger)

	handler, err := httpapi.NewHoursHandler(places, httpapi.WithMeter(meter))
	if err != nil {
		return fmt.Errorf("init handler: %w", err)
	}

	app := httpapi.NewRouter(httpapi.RouterConfig{
		AppName:   applicationName,
		Logger:    logger,
		Telemetry: telemetry,
		Handler:   handler,
	})

	manager := server.NewServerManager(telemetry, logger).WithHTTPServer(app, cfg.ServerAddress)
	launched = true

	return openhours.NewLauncher(
		openhours.WithLogger(logger),
		openhours.RunApp("http", manager),
	).RunWithError()
}
