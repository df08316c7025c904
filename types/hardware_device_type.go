// hardware_device_type.go defines the hardware acceleration backends a
// hardware decoder can be created on.

// Package types contains the data types shared by the parser, decoder and
// source packages.
package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type HardwareDeviceType int

const (
	// values match libav's enum AVHWDeviceType
	HardwareDeviceTypeNone         = HardwareDeviceType(0x0)
	HardwareDeviceTypeVDPAU        = HardwareDeviceType(0x1)
	HardwareDeviceTypeCUDA         = HardwareDeviceType(0x2)
	HardwareDeviceTypeVAAPI        = HardwareDeviceType(0x3)
	HardwareDeviceTypeDXVA2        = HardwareDeviceType(0x4)
	HardwareDeviceTypeQSV          = HardwareDeviceType(0x5)
	HardwareDeviceTypeVideoToolbox = HardwareDeviceType(0x6)
	HardwareDeviceTypeD3D11VA      = HardwareDeviceType(0x7)
	HardwareDeviceTypeDRM          = HardwareDeviceType(0x8)
	HardwareDeviceTypeOpenCL       = HardwareDeviceType(0x9)
	HardwareDeviceTypeMediaCodec   = HardwareDeviceType(0xa)
	HardwareDeviceTypeVulkan       = HardwareDeviceType(0xb)
	endOfHardwareDeviceType        = HardwareDeviceType(0xc)
)

func (t HardwareDeviceType) String() string {
	switch t {
	case HardwareDeviceTypeNone:
		return "none"
	case HardwareDeviceTypeVDPAU:
		return "vdpau"
	case HardwareDeviceTypeCUDA:
		return "cuda"
	case HardwareDeviceTypeVAAPI:
		return "vaapi"
	case HardwareDeviceTypeDXVA2:
		return "dxva2"
	case HardwareDeviceTypeQSV:
		return "qsv"
	case HardwareDeviceTypeVideoToolbox:
		return "videotoolbox"
	case HardwareDeviceTypeD3D11VA:
		return "d3d11va"
	case HardwareDeviceTypeDRM:
		return "drm"
	case HardwareDeviceTypeOpenCL:
		return "opencl"
	case HardwareDeviceTypeMediaCodec:
		return "mediacodec"
	case HardwareDeviceTypeVulkan:
		return "vulkan"
	}
	return fmt.Sprintf("unknown_%X", int64(t))
}

// HardwareDeviceTypeFromString returns -1 if the name is not known.
func HardwareDeviceTypeFromString(s string) HardwareDeviceType {
	s = strings.Trim(strings.ToLower(s), " \n\r\t")
	for candidate := range endOfHardwareDeviceType {
		if candidate.String() == s {
			return candidate
		}
	}
	return -1
}

func (t *HardwareDeviceType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	r := HardwareDeviceTypeFromString(s)
	if r < 0 {
		return fmt.Errorf("unknown hardware device type: '%s'", s)
	}
	*t = r
	return nil
}

func (t HardwareDeviceType) MarshalYAML() (any, error) {
	return t.String(), nil
}
