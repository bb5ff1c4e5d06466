// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/geonodes/internal/ctxlog"
	"github.com/vk/geonodes/internal/registry"
	"github.com/vk/geonodes/modules/arith"
	"github.com/vk/geonodes/modules/group"
	"github.com/vk/geonodes/modules/points"
	"github.com/vk/geonodes/modules/transform"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// NewTestContext returns a context carrying a debug-level text logger that
// writes into the returned buffer. With GEONODES_TEST_LOGS=true the captured
// output is printed when the test ends.
func NewTestContext(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if os.Getenv("GEONODES_TEST_LOGS") == "true" {
		t.Cleanup(func() {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		})
	}
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// WriteFiles writes files, keyed by relative path, below a fresh temporary
// directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(Unindent(content)), 0o644))
	}
	return root
}

// NewRegistry returns a registry with the built-in node modules and any
// extra modules registered. It mirrors the app's core module list without
// importing the app, so loader tests can use it.
func NewRegistry(extra ...registry.Module) *registry.Registry {
	r := registry.New()
	modules := []registry.Module{
		&group.Module{},
		&transform.Module{},
		&arith.Module{},
		&points.Module{},
	}
	for _, m := range append(modules, extra...) {
		m.Register(r)
	}
	return r
}
