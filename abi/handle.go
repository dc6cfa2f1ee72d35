package abi

import (
	"fmt"
	"math"
	"strconv"
)

// Handle is an opaque token for an instance owned by a level library.
//
// A live handle encodes a slot index and a generation. Generations start at 1, so a
// live handle never equals Null, and MaxGeneration stops short of the all-ones value,
// so a live handle never equals Error.
type Handle struct {
	value uint64
	set   bool
}

// Sentinel handles.
var (
	// Void means there is no instance, e.g. construction failed.
	Void = Handle{}

	// Null is the zero value handle.
	Null = Handle{set: true}

	// Error marks a handle known to belong to a crashed instance.
	Error = Handle{set: true, value: math.MaxUint64}
)

// MaxGeneration is the largest generation a live handle may carry.
const MaxGeneration = math.MaxUint32 - 1

// NewHandle builds a live handle. The generation must be in [1, MaxGeneration].
func NewHandle(index, generation uint32) Handle {
	return Handle{set: true, value: uint64(generation)<<32 | uint64(index)}
}

// HandleFromValue rebuilds a handle from its raw value. Used by transports.
func HandleFromValue(v uint64) Handle {
	return Handle{set: true, value: v}
}

// Value returns the raw value and whether the handle is set at all.
func (h Handle) Value() (uint64, bool) {
	return h.value, h.set
}

// Index returns the slot index of a live handle.
func (h Handle) Index() uint32 {
	return uint32(h.value)
}

// Generation returns the slot generation of a live handle.
func (h Handle) Generation() uint32 {
	return uint32(h.value >> 32)
}

// IsVoid reports whether h is the Void sentinel.
func (h Handle) IsVoid() bool { return !h.set }

// IsNull reports whether h is the Null sentinel.
func (h Handle) IsNull() bool { return h == Null }

// IsError reports whether h is the Error sentinel.
func (h Handle) IsError() bool { return h == Error }

// IsLive reports whether h could refer to an instance.
func (h Handle) IsLive() bool {
	g := h.Generation()
	return h.set && g != 0 && g <= MaxGeneration
}

func (h Handle) String() string {
	switch {
	case h.IsVoid():
		return "void"
	case h.IsNull():
		return "null"
	case h.IsError():
		return "error"
	case !h.IsLive():
		return "invalid(" + strconv.FormatUint(h.value, 16) + ")"
	}
	return fmt.Sprintf("handle(%d@%d)", h.Index(), h.Generation())
}
