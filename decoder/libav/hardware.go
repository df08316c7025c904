package libav

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avsource/avconv"
	"github.com/xaionaro-go/avsource/logger"
	"github.com/xaionaro-go/avsource/types"
)

func (d *Decoder) initHardware(
	ctx context.Context,
	hardwareDeviceType types.HardwareDeviceType,
	hardwareDeviceName types.HardwareDeviceName,
	options *astiav.Dictionary,
) (_err error) {
	logger.Tracef(ctx, "initHardware(%s, '%s')", hardwareDeviceType, hardwareDeviceName)
	defer func() { logger.Tracef(ctx, "/initHardware(%s, '%s'): %v", hardwareDeviceType, hardwareDeviceName, _err) }()

	if err := d.initHardwarePixelFormat(ctx, hardwareDeviceType); err != nil {
		return fmt.Errorf("unable to init the hardware pixel format: %w", err)
	}

	hwCtx, err := astiav.CreateHardwareDeviceContext(
		avconv.HardwareDeviceType(hardwareDeviceType),
		string(hardwareDeviceName),
		options,
		0,
	)
	if err != nil {
		return fmt.Errorf("unable to create hardware (%s:%s) device context: %w", hardwareDeviceType, hardwareDeviceName, err)
	}
	d.hardwareDeviceContext = hwCtx
	d.closer.Add(hwCtx.Free)
	d.codecContext.SetHardwareDeviceContext(hwCtx)
	logger.Tracef(ctx, "HardwareDeviceContext: %p", hwCtx)
	return nil
}

func (d *Decoder) initHardwarePixelFormat(
	ctx context.Context,
	hardwareDeviceType types.HardwareDeviceType,
) (_err error) {
	logger.Tracef(ctx, "initHardwarePixelFormat")
	defer func() { logger.Tracef(ctx, "/initHardwarePixelFormat: %v %v", d.hardwarePixelFormat, _err) }()

	d.hardwarePixelFormat = astiav.PixelFormatNone
	for _, hwCfg := range d.codec.HardwareConfigs() {
		logger.Tracef(ctx, "hw config: %v %v %v", hwCfg.PixelFormat(), hwCfg.MethodFlags(), hwCfg.HardwareDeviceType())
		if hwCfg.HardwareDeviceType() != avconv.HardwareDeviceType(hardwareDeviceType) {
			continue
		}
		if !hwCfg.MethodFlags().Has(astiav.CodecHardwareConfigMethodFlagHwDeviceCtx) {
			// TODO: support decoders that only accept a frames context
			continue
		}
		d.hardwarePixelFormat = hwCfg.PixelFormat()
		break
	}
	if d.hardwarePixelFormat == astiav.PixelFormatNone {
		return fmt.Errorf("hardware device type '%v' is not supported by decoder '%s'", hardwareDeviceType, d.codec.Name())
	}

	hwPixFmt := d.hardwarePixelFormat
	d.codecContext.SetPixelFormatCallback(func(pfs []astiav.PixelFormat) astiav.PixelFormat {
		for _, pf := range pfs {
			if pf == hwPixFmt {
				return pf
			}
		}
		logger.Errorf(ctx, "unable to find appropriate pixel format")
		return astiav.PixelFormatNone
	})
	return nil
}

// transferToRAM returns a software frame with the content of a hardware
// frame; the hardware frame is returned to the pool.
func (d *Decoder) transferToRAM(f *astiav.Frame) (*astiav.Frame, error) {
	if d.hardwareDeviceContext == nil || f.PixelFormat() != d.hardwarePixelFormat {
		return f, nil
	}
	ramFrame := framePool.Get()
	if err := f.TransferHardwareData(ramFrame); err != nil {
		framePool.Put(ramFrame)
		return nil, fmt.Errorf("failed to transfer frame from hardware decoder to RAM: %w", err)
	}
	ramFrame.SetPts(f.Pts())
	ramFrame.SetFlags(f.Flags())
	framePool.Put(f)
	return ramFrame, nil
}
