package avconv

import (
	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avsource/types"
)

func HardwareDeviceType(t types.HardwareDeviceType) astiav.HardwareDeviceType {
	return astiav.HardwareDeviceType(t)
}
