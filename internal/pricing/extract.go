package pricing

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ExtractOnDemandPrice extracts the USD on-demand unit price from a price list document
func ExtractOnDemandPrice(priceJSON string) (float64, error) {
	var priceData map[string]any
	if err := json.Unmarshal([]byte(priceJSON), &priceData); err != nil {
		return 0, fmt.Errorf("error parsing pricing data: %w", err)
	}

	terms, ok := priceData["terms"].(map[string]any)
	if !ok {
		return 0, fmt.Errorf("terms field not found or invalid")
	}

	onDemand, ok := terms["OnDemand"].(map[string]any)
	if !ok {
		return 0, fmt.Errorf("OnDemand field not found or invalid")
	}

	skuOffer, ok := firstMapValue(onDemand).(map[string]any)
	if !ok {
		return 0, fmt.Errorf("no SKU offer found")
	}

	priceDimensions, ok := skuOffer["priceDimensions"].(map[string]any)
	if !ok {
		return 0, fmt.Errorf("priceDimensions field not found or invalid")
	}

	dimension, ok := firstMapValue(priceDimensions).(map[string]any)
	if !ok {
		return 0, fmt.Errorf("no price dimension found")
	}

	pricePerUnit, ok := dimension["pricePerUnit"].(map[string]any)
	if !ok {
		return 0, fmt.Errorf("pricePerUnit field not found or invalid")
	}

	usd, ok := pricePerUnit["USD"].(string)
	if !ok {
		return 0, fmt.Errorf("USD price not found or invalid")
	}

	price, err := strconv.ParseFloat(usd, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing price: %w", err)
	}
	return price, nil
}

// firstMapValue returns an arbitrary value of m; price list maps keyed by SKU hold a single entry.
func firstMapValue(m map[string]any) any {
	for _, v := range m {
		return v
	}
	return nil
}
