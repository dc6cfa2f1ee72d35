package loader

import (
	"path/filepath"
	"runtime"
	"strings"
)

// LibraryName applies the platform naming convention to a level's base name:
// lib<base>.so on Linux and FreeBSD, lib<base>.dylib on macOS, <base>.dll on Windows.
func LibraryName(base string) string {
	return libraryName(runtime.GOOS, base)
}

// ResolvePath returns the library path for base under dir.
func ResolvePath(dir, base string) string {
	return filepath.Join(dir, LibraryName(base))
}

// BaseName is the inverse of LibraryName.
func BaseName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if runtime.GOOS != "windows" {
		name = strings.TrimPrefix(name, "lib")
	}
	return name
}

func libraryName(goos, base string) string {
	switch goos {
	case "windows":
		return base + ".dll"
	case "darwin", "ios":
		return "lib" + base + ".dylib"
	default:
		return "lib" + base + ".so"
	}
}
