package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/twt-go/internal/telemetry/logger"
	"github.com/yndnr/twt-go/pkg/twt"
)

// TokenCommand returns the token subcommand group.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:    "token",
		Aliases: []string{"tok"},
		Usage:   "Generate, verify, and hash tokens",
		Subcommands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Mint a token carrying the given claims",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "claim",
						Aliases: []string{"d"},
						Usage:   "Claim as KEY=VALUE (repeatable)",
					},
					&cli.Int64Flag{
						Name:    "ttl",
						Aliases: []string{"t"},
						Usage:   "Validity window length in seconds",
					},
					&cli.Int64Flag{
						Name:  "valid-at",
						Usage: "Window start in Unix seconds (default: now)",
					},
					&cli.Int64Flag{
						Name:  "expires-at",
						Usage: "Window end in Unix seconds (overrides --ttl)",
					},
					&cli.BoolFlag{
						Name:  "with-id",
						Usage: "Inject a unique token id under the tid claim",
					},
					&cli.BoolFlag{
						Name:  "sealed",
						Usage: "Use the authenticated (wire-incompatible) format",
					},
				},
				Action: tokenGenerate,
			},
			{
				Name:      "verify",
				Usage:     "Verify a token and print its claims",
				ArgsUsage: "TOKEN",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "key-map",
						Aliases: []string{"m"},
						Usage:   "Claim rename as KEY=NAME (repeatable)",
					},
					&cli.Int64Flag{
						Name:  "drift",
						Usage: "Allowed clock drift in seconds (0 = default)",
					},
					&cli.BoolFlag{
						Name:  "sealed",
						Usage: "Token uses the authenticated format",
					},
				},
				Action: tokenVerify,
			},
			{
				Name:      "hash",
				Usage:     "Print the SHA-256 hash of a token",
				ArgsUsage: "TOKEN",
				Action:    tokenHash,
			},
		},
	}
}

func tokenGenerate(c *cli.Context) error {
	encodedSecret, err := resolveSecret(c)
	if err != nil {
		return err
	}

	claims, err := parsePairs(c.StringSlice("claim"))
	if err != nil {
		return err
	}

	twtClaims := make(twt.Claims, len(claims)+1)
	for k, v := range claims {
		twtClaims[k] = v
	}
	if c.Bool("with-id") {
		id, err := twt.NewTokenID()
		if err != nil {
			return err
		}
		twtClaims["tid"] = id
	}

	cfg := getConfig(c)
	opts := twt.GenerateOptions{
		EncodedSecret: encodedSecret,
		ValidAt:       c.Int64("valid-at"),
		ExpiresAt:     c.Int64("expires-at"),
		Sealed:        c.Bool("sealed") || cfg.Token.Sealed,
	}

	if opts.ExpiresAt == 0 {
		ttl := c.Int64("ttl")
		if ttl == 0 {
			ttl = cfg.Token.TTL
		}
		if ttl > 0 {
			start := opts.ValidAt
			if start == 0 {
				start = twt.NowSeconds()
				opts.ValidAt = start
			}
			opts.ExpiresAt = start + ttl
		}
	}

	token, err := twt.Generate(twtClaims, opts)
	if err != nil {
		return err
	}

	logger.Default().Debug("token generated",
		"claims", len(twtClaims), "sealed", opts.Sealed)
	return formatter(c).Format(c.App.Writer, token)
}

func tokenVerify(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one TOKEN argument")
	}
	token := c.Args().First()

	encodedSecret, err := resolveSecret(c)
	if err != nil {
		return err
	}

	keyMap, err := parsePairs(c.StringSlice("key-map"))
	if err != nil {
		return err
	}

	cfg := getConfig(c)
	drift := c.Int64("drift")
	if drift == 0 {
		drift = cfg.Verify.Drift
	}

	claims, err := twt.Verify(token, twt.VerifyOptions{
		EncodedSecret:              encodedSecret,
		KeyMap:                     keyMap,
		AllowableClockDriftSeconds: drift,
		Sealed:                     c.Bool("sealed") || cfg.Token.Sealed,
	})
	if err != nil {
		if code := twt.ErrorCode(err); code != "" {
			logger.Default().Debug("verification failed", "code", code)
		}
		return err
	}

	return formatter(c).Format(c.App.Writer, map[string]any(claims))
}

func tokenHash(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one TOKEN argument")
	}
	return formatter(c).Format(c.App.Writer, twt.HashToken(c.Args().First()))
}

// parsePairs splits repeated KEY=VALUE flags into a map.
func parsePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid pair %q, expected KEY=VALUE", p)
		}
		out[k] = v
	}
	return out, nil
}
