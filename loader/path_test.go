package loader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLibraryName(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"linux", "libpenrose.so"},
		{"freebsd", "libpenrose.so"},
		{"darwin", "libpenrose.dylib"},
		{"windows", "penrose.dll"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			assert.Equal(t, tt.want, libraryName(tt.goos, "penrose"))
		})
	}
}

func TestResolvePath(t *testing.T) {
	p := ResolvePath("levels", "penrose")
	assert.Equal(t, filepath.Join("levels", LibraryName("penrose")), p)
	assert.Equal(t, "penrose", BaseName(p))
}
