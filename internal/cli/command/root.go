// Package command provides CLI command definitions for twt-cli.
//
// It uses urfave/cli/v2 for command parsing. Configuration merges flags,
// TWT_-prefixed environment variables, and an optional YAML config file
// loaded via confloader, in that priority order.
package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/twt-go/internal/cli/output"
	"github.com/yndnr/twt-go/internal/infra/buildinfo"
	"github.com/yndnr/twt-go/internal/infra/confloader"
	"github.com/yndnr/twt-go/internal/telemetry/logger"
)

// Config holds twt-cli configuration loadable from file and environment.
type Config struct {
	Output string `koanf:"output"`
	Log    struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"log"`
	Secret struct {
		File string `koanf:"file"`
	} `koanf:"secret"`
	Token struct {
		TTL    int64 `koanf:"ttl"`
		Sealed bool  `koanf:"sealed"`
	} `koanf:"token"`
	Verify struct {
		Drift int64 `koanf:"drift"`
	} `koanf:"verify"`
}

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "twt-cli",
		Usage:   "TWT token tool: generate secrets, mint and verify tokens",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SaltCommand(),
			TokenCommand(),
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			c.App.Metadata["config"] = cfg

			level := cfg.Log.Level
			if c.Bool("verbose") {
				level = "debug"
			}
			l, err := logger.New(logger.Config{
				Level:  level,
				Format: cfg.Log.Format,
				Output: c.App.ErrWriter,
			})
			if err != nil {
				return err
			}
			logger.SetDefault(l)
			return nil
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "secret",
			Aliases: []string{"s"},
			Usage:   "Encoded secret bundle",
			EnvVars: []string{"TWT_SECRET"},
		},
		&cli.StringFlag{
			Name:    "secret-file",
			Usage:   "Path to a file containing the encoded secret bundle",
			EnvVars: []string{"TWT_SECRET_FILE"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML config file",
			EnvVars: []string{"TWT_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose (debug) logging",
		},
	}
}

// loadConfig merges the optional config file and environment variables.
func loadConfig(c *cli.Context) (*Config, error) {
	cfg := &Config{}
	cfg.Output = string(output.FormatTable)
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"

	opts := []confloader.Option{}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getConfig retrieves the loaded config from app metadata.
func getConfig(c *cli.Context) *Config {
	if cfg, ok := c.App.Metadata["config"].(*Config); ok {
		return cfg
	}
	return &Config{}
}

// resolveSecret returns the encoded secret bundle, checking the --secret
// flag (and TWT_SECRET), then --secret-file, then the config file entry.
func resolveSecret(c *cli.Context) (string, error) {
	if s := c.String("secret"); s != "" {
		return s, nil
	}

	path := c.String("secret-file")
	if path == "" {
		path = getConfig(c).Secret.File
	}
	if path == "" {
		return "", fmt.Errorf("no secret provided: use --secret, --secret-file, or TWT_SECRET")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read secret file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// formatter builds the output formatter from the --output flag or config.
func formatter(c *cli.Context) output.Formatter {
	format := c.String("output")
	if format == "" {
		format = getConfig(c).Output
	}
	return output.NewFormatter(output.Format(format))
}
