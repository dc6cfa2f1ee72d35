package remote

import (
	"context"
	"io"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinifold/levels/levelerr"
	"github.com/infinifold/levels/loader"
	"github.com/infinifold/levels/worker"
)

// childModeEnv makes the test binary act as a level host.
const childModeEnv = "LEVELS_REMOTE_TEST_CHILD"

func TestMain(m *testing.M) {
	switch os.Getenv(childModeEnv) {
	case "":
		os.Exit(m.Run())
	case "serve":
		f, err := buildFixture()
		if err != nil {
			os.Exit(1)
		}
		Serve(f.lib, quietLogger())
		os.Exit(0)
	case "silent":
		time.Sleep(time.Minute)
		os.Exit(0)
	case "crash":
		os.Exit(3)
	}
}

func childOpener(mode string, opts ...OpenerOption) *Opener {
	base := []OpenerOption{
		WithBinary(os.Args[0]),
		WithEnv(childModeEnv + "=" + mode),
		WithStderr(io.Discard),
		WithLogger(quietLogger()),
		WithHandshakeTimeout(5 * time.Second),
		WithShutdownTimeout(2 * time.Second),
	}
	return NewOpener(append(base, opts...)...)
}

func TestOpenerRunsLevelInChild(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a child process")
	}
	l := loader.New(loader.WithOpener(childOpener("serve")), loader.WithLogger(quietLogger()))

	ifc, err := l.LoadSafe(context.Background(), "steps.so")
	require.NoError(t, err)
	assert.Equal(t, stepInfo, ifc.Info)

	lvl, err := worker.New(ifc, worker.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.True(t, lvl.WhenAngled(1))
	assert.Len(t, lvl.GetFaces(), 2)

	lib := ifc.Library().(*Library)
	lvl.Destroy()

	require.Len(t, lib.closers, 1)
	proc := lib.closers[0].(*process)
	assert.Eventually(t, proc.Exited, 5*time.Second, 10*time.Millisecond,
		"level host still running after Destroy")
}

func TestOpenerChildWithoutHandshake(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a child process")
	}
	o := childOpener("silent", WithHandshakeTimeout(200*time.Millisecond))

	start := time.Now()
	_, err := o.Open(context.Background(), "steps.so")
	require.Error(t, err)
	assert.True(t, levelerr.IsKind(err, levelerr.KindLoad))
	assert.ErrorContains(t, err, "start level host")
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestOpenerChildCrashesBeforeHandshake(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a child process")
	}
	_, err := childOpener("crash").Open(context.Background(), "steps.so")
	require.Error(t, err)
	assert.True(t, levelerr.IsKind(err, levelerr.KindLoad))
	assert.ErrorContains(t, err, "start level host")
}

func TestChildRefusesToRunWithoutCookie(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a child process")
	}
	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), childModeEnv+"=serve", Handshake.MagicCookieKey+"=")
	out, err := cmd.CombinedOutput()
	require.Error(t, err, "output: %s", out)
	assert.Contains(t, string(out), "plugin")
}

func TestOpenerMissingBinary(t *testing.T) {
	o := NewOpener(WithBinary("/nonexistent/levelhost"), WithLogger(quietLogger()))
	_, err := o.Open(context.Background(), "steps.so")
	require.Error(t, err)
	assert.True(t, levelerr.IsKind(err, levelerr.KindLoad))
}
