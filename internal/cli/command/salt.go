package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/twt-go/internal/telemetry/logger"
	"github.com/yndnr/twt-go/pkg/secret"
)

// SaltCommand returns the salt subcommand group.
func SaltCommand() *cli.Command {
	return &cli.Command{
		Name:  "salt",
		Usage: "Manage secret bundles",
		Subcommands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Generate a fresh encoded secret bundle",
				Action: saltGenerate,
			},
		},
	}
}

func saltGenerate(c *cli.Context) error {
	encoded, err := secret.Generate()
	if err != nil {
		return err
	}

	logger.Default().Debug("secret bundle generated", "secret", encoded)
	return formatter(c).Format(c.App.Writer, encoded)
}
