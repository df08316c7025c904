package types

import (
	"strconv"
)

// HardwareDeviceName is the libav device string (for example "/dev/dri/renderD128"
// for VAAPI or "0" for CUDA).
type HardwareDeviceName string

// HardwareDeviceNameFromOrdinal is used when no explicit device name is
// configured: the device ordinal is what CUDA-like backends expect.
func HardwareDeviceNameFromOrdinal(deviceID int) HardwareDeviceName {
	if deviceID < 0 {
		return ""
	}
	return HardwareDeviceName(strconv.Itoa(deviceID))
}
