package repl

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemantobora/ec2-estimator/internal/controller"
	"github.com/hemantobora/ec2-estimator/internal/models"
	"github.com/hemantobora/ec2-estimator/internal/pricing"
)

// scripted answers prompts in order and records the defaults it was offered.
type scripted struct {
	selects  []string
	inputs   []string
	confirms []bool
	defaults []string
	err      error
}

func (s *scripted) Select(message string, options []string, def string) (string, error) {
	s.defaults = append(s.defaults, def)
	if len(s.selects) == 0 {
		return "", s.exhausted()
	}
	v := s.selects[0]
	s.selects = s.selects[1:]
	return v, nil
}

func (s *scripted) Input(message, def string) (string, error) {
	s.defaults = append(s.defaults, def)
	if len(s.inputs) == 0 {
		return "", s.exhausted()
	}
	v := s.inputs[0]
	s.inputs = s.inputs[1:]
	return v, nil
}

func (s *scripted) Confirm(message string, def bool) (bool, error) {
	if len(s.confirms) == 0 {
		return false, s.exhausted()
	}
	v := s.confirms[0]
	s.confirms = s.confirms[1:]
	return v, nil
}

func (s *scripted) exhausted() error {
	if s.err != nil {
		return s.err
	}
	return errors.New("script exhausted")
}

type stubEstimator struct {
	est   *models.CostEstimate
	err   error
	calls []models.Configuration
}

func (s *stubEstimator) Estimate(ctx context.Context, cfg models.Configuration) (*models.CostEstimate, error) {
	s.calls = append(s.calls, cfg)
	return s.est, s.err
}

type stubPrices struct{ calls int }

func (s *stubPrices) Reference(ctx context.Context, cfg models.Configuration) *pricing.Reference {
	s.calls++
	return &pricing.Reference{InstanceHourlyUSD: 0.0416, EBSPerGBMonthUSD: 0.08, EBSVolumeSizeGB: cfg.EBSVolumeSizeGB}
}

func estimate() *models.CostEstimate {
	return &models.CostEstimate{
		InstanceType: "t3.medium", VCPU: 2, Memory: 4,
		OperatingSystem: "Ubuntu Server 22.04 LTS", EBSVolumeType: "gp3", EBSVolumeSizeGB: 100,
		InstanceCostUSD: 30.37, EBSCostUSD: 8, TotalMonthlyCostUSD: 38.37,
	}
}

func TestFormRunsOneEstimate(t *testing.T) {
	est := &stubEstimator{est: estimate()}
	ctrl := controller.New(est)
	prompt := &scripted{
		selects:  []string{"t3.medium", "Ubuntu Server 22.04 LTS", "gp3"},
		inputs:   []string{"100"},
		confirms: []bool{true, false},
	}
	prices := &stubPrices{}
	var out bytes.Buffer

	require.NoError(t, NewForm(ctrl, prompt, &out, prices).Run(context.Background()))

	require.Len(t, est.calls, 1)
	assert.Equal(t, models.Configuration{
		InstanceType: "t3.medium", OperatingSystem: "Ubuntu Server 22.04 LTS", EBSVolumeType: "gp3", EBSVolumeSizeGB: 100,
	}, est.calls[0])
	assert.Equal(t, []string{"t2.nano", "Amazon Linux 2023", "gp3", "100"}, prompt.defaults)
	assert.Equal(t, 1, prices.calls)
	assert.Contains(t, out.String(), "Total Estimated Monthly Cost: $38.37")
	assert.Contains(t, out.String(), "AWS list price reference")
	assert.Equal(t, controller.Succeeded, ctrl.Snapshot().State)
}

func TestFormShowsFailureAndLoops(t *testing.T) {
	est := &stubEstimator{err: &models.EstimationError{Kind: models.KindMalformedSchema, Provider: "fake"}}
	ctrl := controller.New(est)
	prompt := &scripted{
		selects:  []string{"m5.large", "Debian 11", "st1", "m5.large", "Debian 11", "st1"},
		inputs:   []string{"abc", "-5"},
		confirms: []bool{true, true, false, false},
	}
	prices := &stubPrices{}
	var out bytes.Buffer

	require.NoError(t, NewForm(ctrl, prompt, &out, prices).Run(context.Background()))

	require.Len(t, est.calls, 1, "declined confirmation must not submit")
	assert.Equal(t, 1, est.calls[0].EBSVolumeSizeGB)
	assert.Contains(t, out.String(), "❌ Error: Received malformed data from the AI.")
	assert.Zero(t, prices.calls)
	assert.Equal(t, controller.Failed, ctrl.Snapshot().State)
}

func TestFormInterruptIsCleanExit(t *testing.T) {
	ctrl := controller.New(&stubEstimator{est: estimate()})
	prompt := &scripted{err: terminal.InterruptErr}

	assert.NoError(t, NewForm(ctrl, prompt, &bytes.Buffer{}, nil).Run(context.Background()))
}

func TestFormPropagatesPromptErrors(t *testing.T) {
	ctrl := controller.New(&stubEstimator{est: estimate()})
	prompt := &scripted{selects: []string{"t3.micro"}}

	err := NewForm(ctrl, prompt, &bytes.Buffer{}, nil).Run(context.Background())
	assert.EqualError(t, err, "script exhausted")
}
