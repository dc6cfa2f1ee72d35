package abi

// Exported symbol names a level library provides.
const (
	// SymRequiredIncluded marks a library built against this contract.
	SymRequiredIncluded = "REQUIRED_INCLUDED"

	// SymIsOk reports whether the library is still healthy.
	SymIsOk = "IsOk"

	// SymInit is called once after the library is opened. Optional.
	SymInit = "Init"

	// SymNew creates a level instance.
	SymNew = "New"

	// SymDestroy releases a level instance.
	SymDestroy = "Destroy"

	// SymLevelInfo is the static descriptive record of the level.
	SymLevelInfo = "LEVEL_INFO"

	// SymGetFaces returns the current geometry of an instance. Optional.
	SymGetFaces = "GetFaces"

	// SymWhenAngled notifies an instance of a new view angle. Optional.
	SymWhenAngled = "WhenAngled"
)

// RequiredSymbols lists the symbols whose absence fails a load, in resolution order.
var RequiredSymbols = []string{
	SymRequiredIncluded,
	SymIsOk,
	SymLevelInfo,
	SymNew,
	SymDestroy,
}

// OptionalSymbols lists the symbols bound to a default when absent.
var OptionalSymbols = []string{
	SymInit,
	SymGetFaces,
	SymWhenAngled,
}

// Function signatures of the exported symbols. They are aliases so that a
// plugin.Symbol holding a plain func value satisfies a type assertion against them.
type (
	IsOkFunc       = func() bool
	InitFunc       = func()
	NewFunc        = func() Handle
	DestroyFunc    = func(Handle)
	GetFacesFunc   = func(Handle) []Face
	WhenAngledFunc = func(Handle, float32) bool
)

// IsRequired reports whether name is a required symbol of the contract.
func IsRequired(name string) bool {
	for _, s := range RequiredSymbols {
		if s == name {
			return true
		}
	}
	return false
}
