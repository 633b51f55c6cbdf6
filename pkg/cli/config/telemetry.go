package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/junglesafari/safaridesk/pkg/utils/logging"
	"github.com/junglesafari/safaridesk/pkg/utils/telemetry"
)

const serviceName = "safaridesk"

// Telemetry holds CLI flags for OpenTelemetry export
type Telemetry struct {
	endpoint string
	insecure bool
}

func (x *Telemetry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "otel-endpoint",
			Usage:       "OTLP/HTTP collector endpoint (host:port); telemetry is disabled when empty",
			Category:    "Telemetry",
			Destination: &x.endpoint,
			Sources:     cli.EnvVars("SAFARIDESK_OTEL_ENDPOINT"),
		},
		&cli.BoolFlag{
			Name:        "otel-insecure",
			Usage:       "Export telemetry over plain HTTP",
			Category:    "Telemetry",
			Destination: &x.insecure,
			Sources:     cli.EnvVars("SAFARIDESK_OTEL_INSECURE"),
		},
	}
}

func (x Telemetry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", x.endpoint),
		slog.Bool("insecure", x.insecure),
	)
}

// Configure installs the OpenTelemetry providers
func (x *Telemetry) Configure(ctx context.Context, version string) (telemetry.Shutdown, error) {
	shutdown, err := telemetry.Init(ctx, x.endpoint, serviceName, version, x.insecure)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize telemetry", goerr.V("endpoint", x.endpoint))
	}
	if x.endpoint != "" {
		logging.Default().Info("OpenTelemetry export enabled", "endpoint", x.endpoint)
	}
	return shutdown, nil
}
