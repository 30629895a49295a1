package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hemantobora/ec2-estimator/internal/ai"
	"github.com/hemantobora/ec2-estimator/internal/cloud"
	"github.com/hemantobora/ec2-estimator/internal/controller"
	"github.com/hemantobora/ec2-estimator/internal/display"
	"github.com/hemantobora/ec2-estimator/internal/estimator"
	"github.com/hemantobora/ec2-estimator/internal/models"
	"github.com/hemantobora/ec2-estimator/internal/pricing"
	"github.com/hemantobora/ec2-estimator/internal/repl"
	"github.com/hemantobora/ec2-estimator/internal/web"
)

// newEstimator resolves the provider and refuses to continue without its API key.
func (a *app) newEstimator() (*estimator.Client, error) {
	p, err := a.cfg.AIProvider()
	if err != nil {
		return nil, err
	}
	est := estimator.New(p,
		estimator.WithLogger(a.logger.With().Str("component", "estimator").Logger()),
		estimator.WithTimeout(a.cfg.Timeout),
	)
	if err := est.CheckCredentials(); err != nil {
		return nil, cli.Exit("❌ "+err.Error(), 1)
	}
	return est, nil
}

// priceClient returns nil unless --verify-pricing is set and AWS config loads.
func (a *app) priceClient(ctx context.Context) *pricing.Client {
	if !a.cfg.VerifyPricing {
		return nil
	}
	awsCfg, err := cloud.LoadConfig(ctx, a.cfg.AWSProfile)
	if err != nil {
		a.logger.Warn().Err(err).Msg("price list cross-check disabled")
		return nil
	}
	return pricing.NewFromConfig(awsCfg)
}

func (a *app) estimateCommand(c *cli.Context) error {
	est, err := a.newEstimator()
	if err != nil {
		return err
	}
	ctrl := controller.New(est, controller.WithLogger(a.logger.With().Str("component", "controller").Logger()))
	prices := a.priceClient(c.Context)

	if c.Bool("interactive") || c.String("instance-type") == "" {
		var src repl.ReferenceSource
		if prices != nil {
			src = prices
		}
		return repl.NewForm(ctrl, repl.SurveyPrompter{}, os.Stdout, src).Run(c.Context)
	}

	output := c.String("output")
	if output != "text" && output != "json" {
		return fmt.Errorf("unsupported output format %q (expected text or json)", output)
	}

	updates := []struct{ field, value string }{
		{controller.FieldInstanceType, c.String("instance-type")},
		{controller.FieldOperatingSystem, c.String("os")},
		{controller.FieldEBSVolumeType, c.String("ebs-type")},
		{controller.FieldEBSVolumeSizeGB, c.String("ebs-size")},
	}
	for _, u := range updates {
		if err := ctrl.UpdateField(u.field, u.value); err != nil {
			return err
		}
	}

	done, ok := ctrl.Submit(c.Context)
	if !ok {
		return fmt.Errorf("estimate was not submitted")
	}
	select {
	case <-done:
	case <-c.Context.Done():
		return c.Context.Err()
	}

	snap := ctrl.Snapshot()
	var ref *pricing.Reference
	if prices != nil && snap.State == controller.Succeeded {
		ref = prices.Reference(c.Context, snap.Configuration)
	}
	if output == "json" {
		err = writeJSON(os.Stdout, snap, ref)
	} else {
		display.RenderSnapshot(os.Stdout, snap, ref)
	}
	if err != nil {
		return err
	}
	if snap.State == controller.Failed {
		return cli.Exit("", 1)
	}
	return nil
}

type jsonOutput struct {
	Estimate  *models.CostEstimate `json:"estimate,omitempty"`
	Reference *referenceOutput     `json:"reference,omitempty"`
	Error     *jsonError           `json:"error,omitempty"`
}

type referenceOutput struct {
	InstanceHourlyUSD float64 `json:"instanceHourlyUSD"`
	EBSPerGBMonthUSD  float64 `json:"ebsPerGBMonthUSD"`
	MonthlyTotalUSD   float64 `json:"monthlyTotalUSD"`
	Error             string  `json:"error,omitempty"`
}

type jsonError struct {
	Kind    models.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

func writeJSON(w io.Writer, snap controller.Snapshot, ref *pricing.Reference) error {
	out := jsonOutput{Estimate: snap.Result}
	if snap.State == controller.Failed {
		out.Error = &jsonError{Kind: snap.ErrorKind, Message: snap.Error}
	}
	if ref != nil {
		out.Reference = &referenceOutput{
			InstanceHourlyUSD: ref.InstanceHourlyUSD,
			EBSPerGBMonthUSD:  ref.EBSPerGBMonthUSD,
			MonthlyTotalUSD:   ref.MonthlyTotalUSD(),
		}
		if ref.Err != nil {
			out.Reference = &referenceOutput{Error: ref.Err.Error()}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (a *app) serveCommand(c *cli.Context) error {
	est, err := a.newEstimator()
	if err != nil {
		return err
	}
	ctrl := controller.New(est, controller.WithLogger(a.logger.With().Str("component", "controller").Logger()))

	opts := []web.Option{
		web.WithLogger(a.logger.With().Str("component", "web").Logger()),
		web.WithBaseContext(c.Context),
	}
	if prices := a.priceClient(c.Context); prices != nil {
		opts = append(opts, web.WithPricing(prices))
	}

	fmt.Printf("🚀 Serving the estimator on %s (provider: %s)\n", a.cfg.Addr, est.ProviderName())
	return web.New(ctrl, est, opts...).ListenAndServe(c.Context, a.cfg.Addr)
}

func (a *app) catalogCommand(c *cli.Context) error {
	display.RenderCatalog(os.Stdout)
	return nil
}

func (a *app) providersCommand(c *cli.Context) error {
	display.RenderProviders(os.Stdout, ai.ListProviders())
	return nil
}

// doctorCommand reports problems instead of failing on the first one.
func (a *app) doctorCommand(c *cli.Context) error {
	fmt.Println("🩺 ec2-estimator doctor")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	healthy := true
	p, err := a.cfg.AIProvider()
	if err != nil {
		return err
	}
	if err := estimator.New(p).CheckCredentials(); err != nil {
		healthy = false
		fmt.Printf("❌ AI provider %s: %s\n", p.Name(), err)
	} else {
		fmt.Printf("✅ AI provider %s is configured\n", p.Name())
	}

	awsCfg, err := cloud.LoadConfig(c.Context, a.cfg.AWSProfile)
	if err != nil {
		fmt.Printf("⚠️  AWS configuration: %v\n", err)
	} else if id, err := cloud.CallerIdentity(c.Context, awsCfg); err != nil {
		fmt.Printf("⚠️  AWS credentials: %v\n", err)
	} else {
		fmt.Printf("✅ AWS account %s (%s)\n", id.Account, id.ARN)
	}
	if !a.cfg.VerifyPricing {
		fmt.Println("💡 AWS credentials are only needed for --verify-pricing")
	}

	if !healthy {
		return cli.Exit("", 1)
	}
	return nil
}
