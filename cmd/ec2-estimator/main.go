package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/hemantobora/ec2-estimator/internal/config"
	"github.com/hemantobora/ec2-estimator/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("ec2-estimator failed")
	}
}

// app carries the settings resolved by the global flags to every command.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func newApp() *cli.App {
	a := &app{cfg: config.New(), logger: zerolog.Nop()}

	return &cli.App{
		Name:  "ec2-estimator",
		Usage: "Estimate the monthly on-demand cost of an AWS EC2 configuration with an AI model",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "provider",
				Usage:       "AI provider (gemini, openai, anthropic)",
				EnvVars:     []string{"EC2_ESTIMATOR_PROVIDER"},
				Value:       a.cfg.Provider,
				Destination: &a.cfg.Provider,
			},
			&cli.StringFlag{
				Name:        "model",
				Usage:       "Model override for the selected provider",
				Destination: &a.cfg.Model,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				Value:       a.cfg.LogLevel,
				Destination: &a.cfg.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Log format (console, json)",
				Value:       a.cfg.LogFormat,
				Destination: &a.cfg.LogFormat,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "Upper bound for one provider call",
				Value:       a.cfg.Timeout,
				Destination: &a.cfg.Timeout,
			},
			&cli.StringFlag{
				Name:        "profile",
				Usage:       "AWS credential profile name (e.g., dev, prod)",
				EnvVars:     []string{"AWS_PROFILE"},
				Destination: &a.cfg.AWSProfile,
			},
			&cli.BoolFlag{
				Name:        "verify-pricing",
				Usage:       "Cross-check estimates against the AWS Price List API",
				Destination: &a.cfg.VerifyPricing,
			},
		},
		Before: func(c *cli.Context) error {
			logger, err := logging.Setup(a.cfg.LogLevel, a.cfg.LogFormat)
			if err != nil {
				return err
			}
			a.logger = logger
			return a.cfg.Validate()
		},
		Commands: []*cli.Command{
			{
				Name:  "estimate",
				Usage: "Estimate one configuration, or open the interactive form",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "instance-type", Usage: "EC2 instance type (e.g., t3.medium); omit for the interactive form"},
					&cli.StringFlag{Name: "os", Usage: "Operating system", Value: "Amazon Linux 2023"},
					&cli.StringFlag{Name: "ebs-type", Usage: "EBS volume type", Value: "gp3"},
					&cli.StringFlag{Name: "ebs-size", Usage: "EBS volume size in GB", Value: "100"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output format (text, json)", Value: "text"},
					&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "Use the interactive form"},
				},
				Action: a.estimateCommand,
			},
			{
				Name:  "serve",
				Usage: "Serve the estimate form and JSON API over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "addr",
						Usage:       "Listen address",
						EnvVars:     []string{"EC2_ESTIMATOR_ADDR"},
						Value:       a.cfg.Addr,
						Destination: &a.cfg.Addr,
					},
				},
				Action: a.serveCommand,
			},
			{
				Name:   "catalog",
				Usage:  "List the selectable catalog values",
				Action: a.catalogCommand,
			},
			{
				Name:   "providers",
				Usage:  "List AI providers and whether their API keys are set",
				Action: a.providersCommand,
			},
			{
				Name:   "doctor",
				Usage:  "Check provider credentials and AWS access",
				Action: a.doctorCommand,
			},
		},
		Action: func(c *cli.Context) error {
			return cli.ShowAppHelp(c)
		},
	}
}
