package estimator

import (
	"fmt"

	"github.com/hemantobora/ec2-estimator/internal/ai"
	"github.com/hemantobora/ec2-estimator/internal/models"
)

// BuildPrompt describes cfg to the model. The region is fixed.
func BuildPrompt(cfg models.Configuration) string {
	return fmt.Sprintf("Provide the estimated monthly on-demand cost breakdown for an AWS EC2 instance of type '%s' "+
		"running '%s' with a %dGB '%s' EBS volume in the '%s' region. "+
		"Provide the cost for the instance, the OS (if applicable, otherwise 0), the EBS volume, "+
		"and the total monthly cost in US dollars. Also provide the instance's vCPU count and memory in GiB.",
		cfg.InstanceType, cfg.OperatingSystem, cfg.EBSVolumeSizeGB, cfg.EBSVolumeType, models.Region)
}

// ResponseSchema is the structured-output contract: the ten CostEstimate fields, all required.
func ResponseSchema() *ai.Schema {
	props := []ai.Property{
		{Name: "instanceType", Type: ai.TypeString},
		{Name: "vcpu", Type: ai.TypeInteger},
		{Name: "memory", Type: ai.TypeNumber},
		{Name: "operatingSystem", Type: ai.TypeString},
		{Name: "ebsVolumeType", Type: ai.TypeString},
		{Name: "ebsVolumeSizeGB", Type: ai.TypeInteger},
		{Name: "instanceCostUSD", Type: ai.TypeNumber},
		{Name: "osCostUSD", Type: ai.TypeNumber},
		{Name: "ebsCostUSD", Type: ai.TypeNumber},
		{Name: "totalMonthlyCostUSD", Type: ai.TypeNumber},
	}
	required := make([]string, 0, len(props))
	for _, p := range props {
		required = append(required, p.Name)
	}
	return &ai.Schema{Type: ai.TypeObject, Properties: props, Required: required}
}
