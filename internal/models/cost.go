package models

import (
	"github.com/shopspring/decimal"
)

// Region is the only region estimates are requested for.
const Region = "us-east-1"

// CostEstimate is the monthly on-demand cost breakdown returned by the AI provider.
// JSON names are the response contract and must not change.
type CostEstimate struct {
	InstanceType        string  `json:"instanceType"`
	VCPU                int     `json:"vcpu"`
	Memory              float64 `json:"memory"`
	OperatingSystem     string  `json:"operatingSystem"`
	EBSVolumeType       string  `json:"ebsVolumeType"`
	EBSVolumeSizeGB     int     `json:"ebsVolumeSizeGB"`
	InstanceCostUSD     float64 `json:"instanceCostUSD"`
	OSCostUSD           float64 `json:"osCostUSD"`
	EBSCostUSD          float64 `json:"ebsCostUSD"`
	TotalMonthlyCostUSD float64 `json:"totalMonthlyCostUSD"`
}

// BreakdownDelta returns total - (instance + os + ebs).
func (c *CostEstimate) BreakdownDelta() decimal.Decimal {
	sum := decimal.NewFromFloat(c.InstanceCostUSD).
		Add(decimal.NewFromFloat(c.OSCostUSD)).
		Add(decimal.NewFromFloat(c.EBSCostUSD))
	return decimal.NewFromFloat(c.TotalMonthlyCostUSD).Sub(sum)
}

// BreakdownConsistent reports whether the components add up to the total within a cent.
// The provider's total is displayed either way.
func (c *CostEstimate) BreakdownConsistent() bool {
	return c.BreakdownDelta().Abs().LessThanOrEqual(decimal.New(1, -2))
}
