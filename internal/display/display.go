// Package display renders estimates and form state for the terminal.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/hemantobora/ec2-estimator/internal/ai"
	"github.com/hemantobora/ec2-estimator/internal/controller"
	"github.com/hemantobora/ec2-estimator/internal/models"
	"github.com/hemantobora/ec2-estimator/internal/pricing"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// IdleHint is shown before the first estimate.
const IdleHint = `Select your configuration and click "Get Estimate" to see the details.`

// LoadingMessage is shown while a request is in flight.
const LoadingMessage = "Consulting the AI cloud..."

// Disclaimer is printed under every estimate.
const Disclaimer = "Disclaimer: All cost estimates are for on-demand instances in the 'us-east-1' region and are " +
	"generated by an AI model. For official pricing, please consult the official AWS pricing calculator."

// FormatUSD formats v as US dollars with two decimals and thousands separators, e.g. $1,234.50.
func FormatUSD(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatMemory renders a GiB amount without trailing zeros.
func FormatMemory(gib float64) string {
	return strconv.FormatFloat(gib, 'f', -1, 64) + " GiB"
}

// RenderSnapshot prints exactly one of the four result states.
func RenderSnapshot(w io.Writer, snap controller.Snapshot, ref *pricing.Reference) {
	switch snap.State {
	case controller.Loading:
		fmt.Fprintf(w, "⏳ %s\n", LoadingMessage)
	case controller.Failed:
		RenderError(w, snap.Error)
	case controller.Succeeded:
		RenderEstimate(w, snap.Result, ref)
	default:
		fmt.Fprintln(w, IdleHint)
	}
}

// RenderError prints the error banner.
func RenderError(w io.Writer, msg string) {
	fmt.Fprintf(w, "❌ Error: %s\n", msg)
}

// RenderEstimate prints the hardware summary, cost breakdown and total of est.
func RenderEstimate(w io.Writer, est *models.CostEstimate, ref *pricing.Reference) {
	if est == nil {
		return
	}
	fmt.Fprintf(w, "\n💰 %s\n", est.InstanceType)
	fmt.Fprintln(w, rule)

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "vCPU:\t%d\n", est.VCPU)
	fmt.Fprintf(tw, "Memory:\t%s\n", FormatMemory(est.Memory))
	fmt.Fprintf(tw, "OS:\t%s\n", est.OperatingSystem)
	fmt.Fprintf(tw, "EBS:\t%dGB %s\n", est.EBSVolumeSizeGB, est.EBSVolumeType)
	tw.Flush()

	fmt.Fprintln(w, "\nCost Breakdown")
	tw = tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "EC2 Instance\t%s\t\n", FormatUSD(est.InstanceCostUSD))
	fmt.Fprintf(tw, "Operating System\t%s\t\n", FormatUSD(est.OSCostUSD))
	fmt.Fprintf(tw, "EBS Volume\t%s\t\n", FormatUSD(est.EBSCostUSD))
	tw.Flush()
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total Estimated Monthly Cost: %s\n", FormatUSD(est.TotalMonthlyCostUSD))

	if !est.BreakdownConsistent() {
		fmt.Fprintf(w, "⚠️  Components add up to %s, which differs from the total.\n",
			FormatUSD(est.InstanceCostUSD+est.OSCostUSD+est.EBSCostUSD))
	}
	if ref != nil {
		RenderReference(w, ref)
	}
	fmt.Fprintf(w, "\n%s\n", Disclaimer)
}

// RenderReference prints the AWS price list cross-check.
func RenderReference(w io.Writer, ref *pricing.Reference) {
	if ref.Err != nil {
		fmt.Fprintf(w, "ℹ️  AWS list price reference unavailable: %v\n", ref.Err)
		return
	}
	fmt.Fprintf(w, "📊 AWS list price reference: %s (instance %s/hr, EBS %s/GB-month)\n",
		FormatUSD(ref.MonthlyTotalUSD()), strconv.FormatFloat(ref.InstanceHourlyUSD, 'f', -1, 64),
		strconv.FormatFloat(ref.EBSPerGBMonthUSD, 'f', -1, 64))
}

// RenderProviders lists the AI providers and whether their keys are configured.
func RenderProviders(w io.Writer, infos []ai.ProviderInfo) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tAVAILABLE\tMODEL\tKEY ENV")
	for _, info := range infos {
		available := "no"
		if info.Available {
			available = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name, available, info.Model, strings.Join(info.KeyEnv, ", "))
	}
	tw.Flush()
}

// RenderCatalog prints the three selectable catalogs.
func RenderCatalog(w io.Writer) {
	sections := []struct {
		title string
		items []string
	}{
		{"Instance types", models.InstanceTypes},
		{"Operating systems", models.OperatingSystems},
		{"EBS volume types", models.EBSVolumeTypes},
	}
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d):\n", s.title, len(s.items))
		for _, item := range s.items {
			fmt.Fprintf(w, "  • %s\n", item)
		}
	}
}
