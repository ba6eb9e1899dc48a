package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/webhooks/cmd/app/commands"
	"github.com/allisson/webhooks/internal/app"
	"github.com/allisson/webhooks/internal/config"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getSubscriptionCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-subscription",
			Usage: "Register a URL to receive outbound events",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "url",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Receiver URL (http or https)",
				},
				&cli.StringFlag{
					Name:     "events",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Comma-separated event names, or '*' for all events",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Usage:   "Free-form description",
				},
				&cli.StringFlag{
					Name:    "secret",
					Aliases: []string{"s"},
					Usage:   "Signing secret (omit to generate one)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				subscriptionUseCase, err := container.SubscriptionUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateSubscription(
					ctx,
					subscriptionUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("url"),
					cmd.String("events"),
					cmd.String("description"),
					cmd.String("secret"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "list-subscriptions",
			Usage: "List outbound subscriptions",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "offset",
					Value: 0,
					Usage: "Number of subscriptions to skip",
				},
				&cli.IntFlag{
					Name:  "limit",
					Value: 50,
					Usage: "Maximum number of subscriptions to list (1-100)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				subscriptionUseCase, err := container.SubscriptionUseCase()
				if err != nil {
					return err
				}

				return commands.RunListSubscriptions(
					ctx,
					subscriptionUseCase,
					commands.DefaultIO().Writer,
					int(cmd.Int("offset")),
					int(cmd.Int("limit")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "deactivate-subscription",
			Usage: "Stop deliveries to a subscription",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Subscription ID (UUID)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				subscriptionUseCase, err := container.SubscriptionUseCase()
				if err != nil {
					return err
				}

				return commands.RunDeactivateSubscription(
					ctx,
					subscriptionUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
	}
}
