package models

import "slices"

// InstanceTypes lists the selectable EC2 instance types.
var InstanceTypes = []string{
	"t2.nano",
	"t2.micro",
	"t2.small",
	"t2.medium",
	"t2.large",
	"t3.nano",
	"t3.micro",
	"t3.small",
	"t3.medium",
	"t3.large",
	"t3.xlarge",
	"t3.2xlarge",
	"m5.large",
	"m5.xlarge",
	"m5.2xlarge",
	"m5.4xlarge",
	"c5.large",
	"c5.xlarge",
	"c5.2xlarge",
	"c5.4xlarge",
	"r5.large",
	"r5.xlarge",
	"r5.2xlarge",
	"r5.4xlarge",
	"g4dn.xlarge",
	"g5.xlarge",
	"p3.2xlarge",
}

// OperatingSystems lists the selectable operating systems.
var OperatingSystems = []string{
	"Amazon Linux 2023",
	"Amazon Linux 2",
	"Ubuntu Server 22.04 LTS",
	"Ubuntu Server 20.04 LTS",
	"Windows Server 2022",
	"Windows Server 2019",
	"Red Hat Enterprise Linux 9",
	"Red Hat Enterprise Linux 8",
	"SUSE Linux Enterprise Server 15",
	"SUSE Linux Enterprise Server 12",
	"Debian 11",
	"macOS Sonoma",
	"macOS Ventura",
}

// EBSVolumeTypes lists the selectable EBS volume types.
var EBSVolumeTypes = []string{
	"gp3",
	"gp2",
	"io2 Block Express",
	"io1",
	"st1",
	"sc1",
}

func IsInstanceType(v string) bool   { return slices.Contains(InstanceTypes, v) }
func IsOperatingSystem(v string) bool { return slices.Contains(OperatingSystems, v) }
func IsEBSVolumeType(v string) bool   { return slices.Contains(EBSVolumeTypes, v) }
