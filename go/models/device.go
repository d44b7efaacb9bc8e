package models

import "fmt"

// DeviceClass identifies the device family that raised an interrupt.
type DeviceClass int

const (
	ClockDev DeviceClass = iota
	DiskDev
	TermDev
	SyscallInt
)

// NumDeviceClasses is the size of an interrupt vector.
const NumDeviceClasses = 4

var deviceNames = []string{"clock", "disk", "term", "syscall"}

func (d DeviceClass) String() string {
	if d >= 0 && int(d) < len(deviceNames) {
		return deviceNames[d]
	}
	return fmt.Sprintf("dev(%d)", int(d))
}

// ParseDeviceClass is the inverse of DeviceClass.String.
func ParseDeviceClass(name string) (DeviceClass, bool) {
	for i, n := range deviceNames {
		if n == name {
			return DeviceClass(i), true
		}
	}
	return 0, false
}

// Status is a device status word. It is passed verbatim from the device to the waiter.
type Status int32

// Address names one unit of one device class.
type Address struct {
	Dev  DeviceClass
	Unit int
}

func (a Address) String() string {
	return fmt.Sprintf("%s%d", a.Dev, a.Unit)
}

// IntHandler is an interrupt vector entry. arg carries the unit number for
// multi-unit devices and the syscall argument block for traps.
type IntHandler func(dev DeviceClass, arg interface{})

// Vector is the substrate side of interrupt registration.
type Vector interface {
	SetHandler(dev DeviceClass, h IntHandler) error
}
