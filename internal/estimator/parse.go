package estimator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hemantobora/ec2-estimator/internal/ai"
	"github.com/hemantobora/ec2-estimator/internal/models"
)

var errNotObject = errors.New("payload is not a JSON object")

// ParseEstimate turns a provider payload into a CostEstimate. It returns an
// EstimationError of kind EmptyResponse, MalformedJSON or MalformedSchema.
func ParseEstimate(payload string) (*models.CostEstimate, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, &models.EstimationError{Kind: models.KindEmptyResponse}
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, malformedJSON(payload, err)
	}
	if dec.More() {
		return nil, malformedJSON(payload, errors.New("trailing data after JSON object"))
	}
	if fields == nil {
		return nil, malformedJSON(payload, errNotObject)
	}

	if err := validateFields(fields, ResponseSchema()); err != nil {
		return nil, &models.EstimationError{Kind: models.KindMalformedSchema, Cause: err}
	}

	var est models.CostEstimate
	if err := json.NewDecoder(bytes.NewReader([]byte(payload))).Decode(&est); err != nil {
		return nil, &models.EstimationError{Kind: models.KindMalformedSchema, Cause: err}
	}
	if err := validateRanges(&est); err != nil {
		return nil, &models.EstimationError{Kind: models.KindMalformedSchema, Cause: err}
	}
	return &est, nil
}

func malformedJSON(payload string, cause error) error {
	return &models.EstimationError{
		Kind:  models.KindMalformedJSON,
		Cause: &models.JSONValidationError{Context: "estimate response", Content: payload, Cause: cause},
	}
}

// validateFields checks presence and JSON type of every schema property.
func validateFields(fields map[string]any, schema *ai.Schema) error {
	var violations []models.FieldViolation
	for _, name := range schema.Required {
		typ, _ := schema.Lookup(name)
		v, ok := fields[name]
		if !ok || v == nil {
			violations = append(violations, models.FieldViolation{Field: name, Reason: "missing"})
			continue
		}
		if reason := checkType(v, typ); reason != "" {
			violations = append(violations, models.FieldViolation{Field: name, Reason: reason})
		}
	}
	if len(violations) > 0 {
		return &models.SchemaViolationError{Violations: violations}
	}
	return nil
}

func checkType(v any, typ ai.Type) string {
	switch typ {
	case ai.TypeString:
		if _, ok := v.(string); !ok {
			return fmt.Sprintf("expected string, got %T", v)
		}
	case ai.TypeNumber:
		n, ok := v.(json.Number)
		if !ok {
			return fmt.Sprintf("expected number, got %T", v)
		}
		if _, err := n.Float64(); err != nil {
			return "number out of range"
		}
	case ai.TypeInteger:
		n, ok := v.(json.Number)
		if !ok {
			return fmt.Sprintf("expected integer, got %T", v)
		}
		// integer literals only; 2.0 and 2e0 would not decode into an int field
		i, err := n.Int64()
		if err != nil || i > math.MaxInt32 || i < -math.MaxInt32 {
			return "expected integer, got " + n.String()
		}
	}
	return ""
}

func validateRanges(est *models.CostEstimate) error {
	var violations []models.FieldViolation
	add := func(field, reason string) {
		violations = append(violations, models.FieldViolation{Field: field, Reason: reason})
	}
	if strings.TrimSpace(est.InstanceType) == "" {
		add("instanceType", "empty")
	}
	if est.VCPU <= 0 {
		add("vcpu", "must be positive")
	}
	if est.Memory <= 0 {
		add("memory", "must be positive")
	}
	if strings.TrimSpace(est.OperatingSystem) == "" {
		add("operatingSystem", "empty")
	}
	if strings.TrimSpace(est.EBSVolumeType) == "" {
		add("ebsVolumeType", "empty")
	}
	if est.EBSVolumeSizeGB < 1 {
		add("ebsVolumeSizeGB", "must be at least 1")
	}
	costs := []struct {
		field string
		value float64
	}{
		{"instanceCostUSD", est.InstanceCostUSD},
		{"osCostUSD", est.OSCostUSD},
		{"ebsCostUSD", est.EBSCostUSD},
		{"totalMonthlyCostUSD", est.TotalMonthlyCostUSD},
	}
	for _, c := range costs {
		if c.value < 0 {
			add(c.field, "must not be negative")
		}
	}
	if len(violations) > 0 {
		return &models.SchemaViolationError{Violations: violations}
	}
	return nil
}
