package controller

import (
	"github.com/hemantobora/ec2-estimator/internal/models"
)

// RequestState is the lifecycle of the current estimate request.
type RequestState int

const (
	Idle RequestState = iota
	Loading
	Succeeded
	Failed
)

func (s RequestState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText lets snapshots serialize the state by name.
func (s RequestState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Field names accepted by UpdateField; they match the JSON names of models.Configuration.
const (
	FieldInstanceType    = "instanceType"
	FieldOperatingSystem = "operatingSystem"
	FieldEBSVolumeType   = "ebsVolumeType"
	FieldEBSVolumeSizeGB = "ebsVolumeSizeGB"
)

// Snapshot is an immutable copy of the controller state handed to observers.
type Snapshot struct {
	Configuration models.Configuration `json:"configuration"`
	State         RequestState         `json:"state"`
	Result        *models.CostEstimate `json:"result,omitempty"`
	Error         string               `json:"error,omitempty"`
	ErrorKind     models.ErrorKind     `json:"errorKind,omitempty"`
	RequestID     string               `json:"requestId,omitempty"`
}

// InputsEnabled is false while a request is in flight.
func (s Snapshot) InputsEnabled() bool {
	return s.State != Loading
}

// Observer is notified after every state transition.
type Observer func(Snapshot)
