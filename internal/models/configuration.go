package models

import "fmt"

// DefaultEBSVolumeSizeGB is the volume size a fresh form starts with.
const DefaultEBSVolumeSizeGB = 100

// Configuration is the user-selected EC2 setup an estimate is requested for.
type Configuration struct {
	InstanceType    string `json:"instanceType"`
	OperatingSystem string `json:"operatingSystem"`
	EBSVolumeType   string `json:"ebsVolumeType"`
	EBSVolumeSizeGB int    `json:"ebsVolumeSizeGB"`
}

// DefaultConfiguration returns the first entry of every catalog and a 100 GB volume.
func DefaultConfiguration() Configuration {
	return Configuration{
		InstanceType:    InstanceTypes[0],
		OperatingSystem: OperatingSystems[0],
		EBSVolumeType:   EBSVolumeTypes[0],
		EBSVolumeSizeGB: DefaultEBSVolumeSizeGB,
	}
}

// Validate checks every field against the catalogs.
func (c Configuration) Validate() error {
	if !IsInstanceType(c.InstanceType) {
		return &InputValidationError{InputType: "instanceType", Value: c.InstanceType, Expected: "one of the supported instance types"}
	}
	if !IsOperatingSystem(c.OperatingSystem) {
		return &InputValidationError{InputType: "operatingSystem", Value: c.OperatingSystem, Expected: "one of the supported operating systems"}
	}
	if !IsEBSVolumeType(c.EBSVolumeType) {
		return &InputValidationError{InputType: "ebsVolumeType", Value: c.EBSVolumeType, Expected: "one of the supported EBS volume types"}
	}
	if c.EBSVolumeSizeGB < 1 {
		return &InputValidationError{InputType: "ebsVolumeSizeGB", Value: fmt.Sprint(c.EBSVolumeSizeGB), Expected: "an integer >= 1"}
	}
	return nil
}

func (c Configuration) String() string {
	return fmt.Sprintf("%s / %s / %dGB %s", c.InstanceType, c.OperatingSystem, c.EBSVolumeSizeGB, c.EBSVolumeType)
}
