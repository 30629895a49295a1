// Package pricing looks up AWS list prices to cross-check AI estimates.
package pricing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"

	"github.com/hemantobora/ec2-estimator/internal/models"
)

// HoursPerMonth is the billing month used by AWS (365 days / 12 months * 24 hours).
const HoursPerMonth = 730

// The Price List API is only served from us-east-1 and ap-south-1.
const apiRegion = "us-east-1"

// ProductsAPI is the part of the pricing client this package uses.
type ProductsAPI interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

// Client answers list-price questions for models.Region and caches every answer.
type Client struct {
	api ProductsAPI

	mu    sync.RWMutex
	cache map[string]float64
}

// New wraps an existing Price List client.
func New(api ProductsAPI) *Client {
	return &Client{api: api, cache: make(map[string]float64)}
}

// NewFromConfig builds a Price List client from cfg, pinned to the API region.
func NewFromConfig(cfg aws.Config) *Client {
	return New(pricing.NewFromConfig(cfg, func(o *pricing.Options) {
		o.Region = apiRegion
	}))
}

// Reference is a list-price estimate for one configuration. Err is set when any lookup failed.
type Reference struct {
	InstanceHourlyUSD float64
	EBSPerGBMonthUSD  float64
	EBSVolumeSizeGB   int
	Err               error
}

// MonthlyTotalUSD returns instance hours for a month plus the volume's GB-month charge.
func (r *Reference) MonthlyTotalUSD() float64 {
	return r.InstanceHourlyUSD*HoursPerMonth + r.EBSPerGBMonthUSD*float64(r.EBSVolumeSizeGB)
}

// Reference looks up both prices for cfg. It never fails; errors are recorded on the result.
func (c *Client) Reference(ctx context.Context, cfg models.Configuration) *Reference {
	ref := &Reference{EBSVolumeSizeGB: cfg.EBSVolumeSizeGB}
	hourly, err := c.InstanceHourly(ctx, cfg.InstanceType, cfg.OperatingSystem)
	if err != nil {
		ref.Err = err
		return ref
	}
	perGB, err := c.EBSPerGBMonth(ctx, cfg.EBSVolumeType)
	if err != nil {
		ref.Err = err
		return ref
	}
	ref.InstanceHourlyUSD = hourly
	ref.EBSPerGBMonthUSD = perGB
	return ref
}

// InstanceHourly returns the on-demand hourly price of instanceType running osName.
func (c *Client) InstanceHourly(ctx context.Context, instanceType, osName string) (float64, error) {
	osAttr, ok := OperatingSystemFamily(osName)
	if !ok {
		return 0, fmt.Errorf("no price list operating system for %q", osName)
	}
	key := fmt.Sprintf("ec2:%s:%s:%s", models.Region, instanceType, osAttr)
	filters := []types.Filter{
		termMatch("instanceType", instanceType),
		termMatch("regionCode", models.Region),
		termMatch("operatingSystem", osAttr),
		termMatch("tenancy", "Shared"),
		termMatch("preInstalledSw", "NA"),
		termMatch("capacitystatus", "Used"),
	}
	if osAttr == "Windows" {
		filters = append(filters, termMatch("licenseModel", "No License required"))
	}
	return c.lookup(ctx, key, filters, instanceType)
}

// EBSPerGBMonth returns the GB-month storage price of volumeType.
func (c *Client) EBSPerGBMonth(ctx context.Context, volumeType string) (float64, error) {
	apiName := VolumeAPIName(volumeType)
	key := fmt.Sprintf("ebs:%s:%s", models.Region, apiName)
	filters := []types.Filter{
		termMatch("productFamily", "Storage"),
		termMatch("volumeApiName", apiName),
		termMatch("regionCode", models.Region),
	}
	return c.lookup(ctx, key, filters, volumeType)
}

func (c *Client) lookup(ctx context.Context, key string, filters []types.Filter, resource string) (float64, error) {
	c.mu.RLock()
	if price, found := c.cache[key]; found {
		c.mu.RUnlock()
		return price, nil
	}
	c.mu.RUnlock()

	resp, err := c.api.GetProducts(ctx, &pricing.GetProductsInput{
		ServiceCode: aws.String("AmazonEC2"),
		Filters:     filters,
		MaxResults:  aws.Int32(1),
	})
	if err != nil {
		return 0, &models.ProviderError{Provider: "aws", Operation: "get-products", Resource: resource, Cause: err}
	}
	if len(resp.PriceList) == 0 {
		return 0, fmt.Errorf("no pricing found for %s in region %s", resource, models.Region)
	}
	price, err := ExtractOnDemandPrice(resp.PriceList[0])
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.cache[key] = price
	c.mu.Unlock()
	return price, nil
}

func termMatch(field, value string) types.Filter {
	return types.Filter{
		Type:  types.FilterTypeTermMatch,
		Field: aws.String(field),
		Value: aws.String(value),
	}
}

// OperatingSystemFamily maps a catalog OS to the price list "operatingSystem" attribute.
// macOS runs only on dedicated mac hosts and has no shared-tenancy price.
func OperatingSystemFamily(osName string) (string, bool) {
	switch {
	case strings.HasPrefix(osName, "Windows"):
		return "Windows", true
	case strings.HasPrefix(osName, "Red Hat"):
		return "RHEL", true
	case strings.HasPrefix(osName, "SUSE"):
		return "SUSE", true
	case strings.HasPrefix(osName, "Amazon Linux"), strings.HasPrefix(osName, "Ubuntu"), strings.HasPrefix(osName, "Debian"):
		return "Linux", true
	default:
		return "", false
	}
}

// VolumeAPIName maps a catalog volume type to its API name ("io2 Block Express" -> "io2").
func VolumeAPIName(volumeType string) string {
	name, _, _ := strings.Cut(volumeType, " ")
	return name
}
