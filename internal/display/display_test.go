package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hemantobora/ec2-estimator/internal/ai"
	"github.com/hemantobora/ec2-estimator/internal/controller"
	"github.com/hemantobora/ec2-estimator/internal/models"
	"github.com/hemantobora/ec2-estimator/internal/pricing"
)

func sample() *models.CostEstimate {
	return &models.CostEstimate{
		InstanceType:        "t3.medium",
		VCPU:                2,
		Memory:              4,
		OperatingSystem:     "Ubuntu Server 22.04 LTS",
		EBSVolumeType:       "gp3",
		EBSVolumeSizeGB:     100,
		InstanceCostUSD:     30.37,
		OSCostUSD:           0,
		EBSCostUSD:          8,
		TotalMonthlyCostUSD: 38.37,
	}
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{38.37, "$38.37"},
		{1234.5, "$1,234.50"},
		{0, "$0.00"},
		{8, "$8.00"},
		{-2.5, "-$2.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUSD(tt.in))
	}
}

func TestFormatMemory(t *testing.T) {
	assert.Equal(t, "4 GiB", FormatMemory(4))
	assert.Equal(t, "0.5 GiB", FormatMemory(0.5))
}

func TestRenderSnapshotStates(t *testing.T) {
	tests := []struct {
		name string
		snap controller.Snapshot
		want string
		not  []string
	}{
		{"idle", controller.Snapshot{State: controller.Idle}, IdleHint, []string{LoadingMessage, "Error"}},
		{"loading", controller.Snapshot{State: controller.Loading}, LoadingMessage, []string{IdleHint, "Error"}},
		{"failed", controller.Snapshot{State: controller.Failed, Error: "Received malformed data from the AI."},
			"❌ Error: Received malformed data from the AI.", []string{IdleHint, LoadingMessage, "Total"}},
		{"succeeded", controller.Snapshot{State: controller.Succeeded, Result: sample()},
			"Total Estimated Monthly Cost: $38.37", []string{IdleHint, LoadingMessage, "Error"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			RenderSnapshot(&buf, tt.snap, nil)
			out := buf.String()
			assert.Contains(t, out, tt.want)
			for _, s := range tt.not {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRenderEstimate(t *testing.T) {
	var buf bytes.Buffer
	RenderEstimate(&buf, sample(), nil)
	out := buf.String()

	assert.Contains(t, out, "t3.medium")
	assert.Contains(t, out, "4 GiB")
	assert.Contains(t, out, "100GB gp3")
	assert.Contains(t, out, "$30.37")
	assert.Contains(t, out, "$8.00")
	assert.Contains(t, out, Disclaimer)
	assert.NotContains(t, out, "differs from the total")
}

func TestRenderEstimateFlagsInconsistentTotal(t *testing.T) {
	est := sample()
	est.TotalMonthlyCostUSD = 50

	var buf bytes.Buffer
	RenderEstimate(&buf, est, nil)
	out := buf.String()

	assert.Contains(t, out, "Total Estimated Monthly Cost: $50.00")
	assert.Contains(t, out, "Components add up to $38.37")
}

func TestRenderReference(t *testing.T) {
	var buf bytes.Buffer
	RenderReference(&buf, &pricing.Reference{InstanceHourlyUSD: 0.0416, EBSPerGBMonthUSD: 0.08, EBSVolumeSizeGB: 100})
	assert.Contains(t, buf.String(), "$38.37")

	buf.Reset()
	RenderReference(&buf, &pricing.Reference{Err: errors.New("throttled")})
	assert.Contains(t, buf.String(), "reference unavailable: throttled")
}

func TestRenderProviders(t *testing.T) {
	var buf bytes.Buffer
	RenderProviders(&buf, []ai.ProviderInfo{
		{Name: "gemini", Available: true, Model: "gemini-2.5-flash", KeyEnv: []string{"GEMINI_API_KEY", "API_KEY"}},
		{Name: "openai", Model: "gpt-4o-mini", KeyEnv: []string{"OPENAI_API_KEY"}},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[1], "yes")
	assert.Contains(t, lines[1], "GEMINI_API_KEY, API_KEY")
	assert.Contains(t, lines[2], "no")
}

func TestRenderCatalog(t *testing.T) {
	var buf bytes.Buffer
	RenderCatalog(&buf)
	out := buf.String()
	assert.Contains(t, out, "• t2.nano")
	assert.Contains(t, out, "• macOS Sonoma")
	assert.Contains(t, out, "• io2 Block Express")
}
