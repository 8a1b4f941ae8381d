package cec

import "fmt"

// Opcode identifies the semantic meaning of a message.
type Opcode uint8

// Opcodes used by the framework and the bundled feature actions.
const (
	OpcodeFeatureAbort          Opcode = 0x00
	OpcodeImageViewOn           Opcode = 0x04
	OpcodeTextViewOn            Opcode = 0x0D
	OpcodeStandby               Opcode = 0x36
	OpcodeUserControlPressed    Opcode = 0x44
	OpcodeUserControlReleased   Opcode = 0x45
	OpcodeGiveOSDName           Opcode = 0x46
	OpcodeSetOSDName            Opcode = 0x47
	OpcodeRoutingChange         Opcode = 0x80
	OpcodeRoutingInformation    Opcode = 0x81
	OpcodeActiveSource          Opcode = 0x82
	OpcodeGivePhysicalAddress   Opcode = 0x83
	OpcodeReportPhysicalAddress Opcode = 0x84
	OpcodeRequestActiveSource   Opcode = 0x85
	OpcodeSetStreamPath         Opcode = 0x86
	OpcodeDeviceVendorID        Opcode = 0x87
	OpcodeGiveDeviceVendorID    Opcode = 0x8C
	OpcodeGiveDevicePowerStatus Opcode = 0x8F
	OpcodeReportPowerStatus     Opcode = 0x90
	OpcodeCECVersion            Opcode = 0x9E
	OpcodeGetCECVersion         Opcode = 0x9F
	OpcodeAbort                 Opcode = 0xFF
)

// String returns the opcode mnemonic, or a hex form for opcodes outside
// the supported table.
func (o Opcode) String() string {
	switch o {
	case OpcodeFeatureAbort:
		return "FEATURE_ABORT"
	case OpcodeImageViewOn:
		return "IMAGE_VIEW_ON"
	case OpcodeTextViewOn:
		return "TEXT_VIEW_ON"
	case OpcodeStandby:
		return "STANDBY"
	case OpcodeUserControlPressed:
		return "USER_CONTROL_PRESSED"
	case OpcodeUserControlReleased:
		return "USER_CONTROL_RELEASED"
	case OpcodeGiveOSDName:
		return "GIVE_OSD_NAME"
	case OpcodeSetOSDName:
		return "SET_OSD_NAME"
	case OpcodeRoutingChange:
		return "ROUTING_CHANGE"
	case OpcodeRoutingInformation:
		return "ROUTING_INFORMATION"
	case OpcodeActiveSource:
		return "ACTIVE_SOURCE"
	case OpcodeGivePhysicalAddress:
		return "GIVE_PHYSICAL_ADDRESS"
	case OpcodeReportPhysicalAddress:
		return "REPORT_PHYSICAL_ADDRESS"
	case OpcodeRequestActiveSource:
		return "REQUEST_ACTIVE_SOURCE"
	case OpcodeSetStreamPath:
		return "SET_STREAM_PATH"
	case OpcodeDeviceVendorID:
		return "DEVICE_VENDOR_ID"
	case OpcodeGiveDeviceVendorID:
		return "GIVE_DEVICE_VENDOR_ID"
	case OpcodeGiveDevicePowerStatus:
		return "GIVE_DEVICE_POWER_STATUS"
	case OpcodeReportPowerStatus:
		return "REPORT_POWER_STATUS"
	case OpcodeCECVersion:
		return "CEC_VERSION"
	case OpcodeGetCECVersion:
		return "GET_CEC_VERSION"
	case OpcodeAbort:
		return "ABORT"
	default:
		return fmt.Sprintf("OPCODE(0x%02X)", uint8(o))
	}
}

// PowerStatus is the device power state carried by ReportPowerStatus.
type PowerStatus uint8

const (
	PowerStatusOn                 PowerStatus = 0
	PowerStatusStandby            PowerStatus = 1
	PowerStatusTransientToOn      PowerStatus = 2
	PowerStatusTransientToStandby PowerStatus = 3

	// PowerStatusUnknown is not a wire value; it is reported when a
	// power-status exchange fails.
	PowerStatusUnknown PowerStatus = 0xFF
)

// String returns a human-readable power status name.
func (s PowerStatus) String() string {
	switch s {
	case PowerStatusOn:
		return "ON"
	case PowerStatusStandby:
		return "STANDBY"
	case PowerStatusTransientToOn:
		return "TRANSIENT_TO_ON"
	case PowerStatusTransientToStandby:
		return "TRANSIENT_TO_STANDBY"
	default:
		return "UNKNOWN"
	}
}

// UICommand is a single-byte remote-control operand carried by
// UserControlPressed.
type UICommand uint8

// UI commands used by the bundled SendKey action.
const (
	UICmdSelect     UICommand = 0x00
	UICmdUp         UICommand = 0x01
	UICmdDown       UICommand = 0x02
	UICmdLeft       UICommand = 0x03
	UICmdRight      UICommand = 0x04
	UICmdPower      UICommand = 0x40
	UICmdVolumeUp   UICommand = 0x41
	UICmdVolumeDown UICommand = 0x42
	UICmdMute       UICommand = 0x43
	UICmdPowerOff   UICommand = 0x6C
	UICmdPowerOn    UICommand = 0x6D
)
