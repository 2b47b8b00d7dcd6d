// FILE: lixenwraith/envconfig/cmd/envcheck/main.go
// envcheck resolves a service configuration from the environment and
// reports every problem with it before the service would start.
//
// Usage:
//
//	envcheck [-file defaults.toml] [-keys] [-debug]
//
// Without -file, envcheck.{toml,json,yaml,yml} is looked up in ENVCHECK_CONFIG,
// the working directory and the XDG config directories.
//
// With -keys it lists the environment keys the service reads. Otherwise it
// resolves the configuration, prints it as TOML with secrets masked, and
// exits 1 after listing defects when the environment is incomplete.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lixenwraith/envconfig"
	"github.com/rs/zerolog"
)

// Database holds the connection settings of the service's store
type Database struct {
	URL         url.URL       `env:"url"`
	MaxConns    int           `env:"max_conns" default:"10" chain:"int,positive"`
	IdleTimeout time.Duration `env:"idle_timeout" default:"30s"`
	Password    envconfig.Secret
}

// Server holds the listener settings
type Server struct {
	Host string `env:"host" default:"localhost" chain:"trim,lower"`
	Port uint16 `env:"port" default:"8080"`
}

// ServiceConfig is read from SERVICECONFIG__* keys
type ServiceConfig struct {
	Server   Server
	Database Database
	Debug    bool   `env:"debug" default:"false"`
	Version  string `env:"_version" default:"dev"`
}

func main() {
	file := flag.String("file", "", "TOML, JSON or YAML file layered under the environment")
	keys := flag.Bool("keys", false, "list the environment keys and exit")
	debug := flag.Bool("debug", false, "log each resolved field")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()

	snapshot := envconfig.FromOS()
	if *file == "" {
		*file = envconfig.DiscoverFile(envconfig.DefaultDiscoveryOptions("envcheck"), snapshot)
	}
	if *file != "" {
		fileSnapshot, err := envconfig.FromFile(*file)
		if err != nil {
			logger.Fatal().Err(err).Str("file", *file).Msg("Failed to read snapshot file")
		}
		snapshot, err = envconfig.Merge(fileSnapshot, snapshot)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to layer snapshot file")
		}
		logger.Info().Str("file", *file).Int("keys", fileSnapshot.Len()).Msg("Layered snapshot file")
	}

	resolver, err := envconfig.NewBuilder().
		WithSnapshot(snapshot).
		WithStep("positive", envconfig.Validate(positive)).
		WithLogger(logger).
		Build()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build resolver")
	}

	if *keys {
		if err := printKeys(resolver); err != nil {
			logger.Fatal().Err(err).Msg("Failed to list keys")
		}
		return
	}

	cfg, err := envconfig.MustLoad[ServiceConfig](resolver)
	if err != nil {
		var verr *envconfig.ValidationError
		if errors.As(err, &verr) {
			logger.Error().Str("field", verr.Field).Msg(verr.Error())
			os.Exit(2)
		}
		logger.Fatal().Err(err).Msg("Failed to resolve configuration")
	}

	logger.Info().
		Str("host", cfg.Server.Host).
		Uint16("port", cfg.Server.Port).
		Stringer("password", cfg.Database.Password).
		Msg("Configuration resolved")

	if err := resolver.Dump(os.Stdout, cfg); err != nil {
		logger.Fatal().Err(err).Msg("Failed to dump configuration")
	}
}

func positive(v any) error {
	if n, ok := v.(int); !ok || n <= 0 {
		return envconfig.Invalid(fmt.Sprintf("expected a positive number, got %v", v))
	}
	return nil
}

func printKeys(r *envconfig.Resolver) error {
	infos, err := r.Keys(ServiceConfig{})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tDEFAULT\tSTEPS")
	for _, info := range infos {
		def := "-"
		if info.HasDefault {
			def = info.Default
		}
		key := info.Key
		if info.Private {
			key += " (private)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", key, info.Type, def, strings.Join(info.Steps, ","))
	}
	return w.Flush()
}
