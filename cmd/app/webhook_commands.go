package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/webhooks/cmd/app/commands"
)

func getWebhookCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "sign-payload",
			Usage: "Sign a payload file and print the signature headers, for replaying deliveries",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "file",
					Aliases: []string{"p"},
					Usage:   "Payload file (omit or '-' to read stdin)",
				},
				&cli.StringFlag{
					Name:     "secret",
					Aliases:  []string{"s"},
					Required: true,
					Sources:  cli.EnvVars("WEBHOOK_STRIPE_SECRET"),
					Usage:    "Provider signing secret",
				},
				&cli.StringFlag{
					Name:  "scheme",
					Value: "stripe",
					Usage: "Signature scheme: 'stripe' or 'split'",
				},
				&cli.Int64Flag{
					Name:  "timestamp",
					Usage: "Unix timestamp to sign at (default: now)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				var body io.Reader = os.Stdin
				if path := cmd.String("file"); path != "" && path != "-" {
					file, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("failed to open payload file: %w", err)
					}
					defer func() { _ = file.Close() }()
					body = file
				}

				return commands.RunSignPayload(
					body,
					commands.DefaultIO().Writer,
					cmd.String("secret"),
					cmd.String("scheme"),
					cmd.Int64("timestamp"),
					cmd.String("format"),
				)
			},
		},
	}
}
