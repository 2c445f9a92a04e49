package references

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-sakanah/udonsharp-linter/internal/settings"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestResolve_SurfaceNoneReturnsOnlyBase(t *testing.T) {
	t.Parallel()
	s := settings.Default()
	s.UnityAPISurface = settings.SurfaceNone

	refs := Resolve(s, "", discardLogger())
	require.Len(t, refs, len(baseRuntimeAssemblies))
	for _, r := range refs {
		assert.Empty(t, r.Path)
	}
}

func TestResolve_BundledStubsWalksDirectoryRecursively(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VRC.Udon.dll"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "Nested.dll"), []byte("x"), 0o644))

	s := settings.Default()
	s.UnityAPISurface = settings.SurfaceBundledStubs

	refs := Resolve(s, dir, discardLogger())
	assert.Len(t, refs, len(baseRuntimeAssemblies)+2)

	var names []string
	for _, r := range refs[len(baseRuntimeAssemblies):] {
		names = append(names, r.Name)
		assert.NotEmpty(t, r.Path)
	}
	assert.ElementsMatch(t, []string{"VRC.Udon.dll", "Nested.dll"}, names)
}

func TestResolve_CustomStubsUsesCustomStubPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Custom.dll"), []byte("x"), 0o644))

	s := settings.Default()
	s.UnityAPISurface = settings.SurfaceCustomStubs
	s.CustomStubPath = dir

	refs := Resolve(s, "/unused", discardLogger())
	assert.Len(t, refs, len(baseRuntimeAssemblies)+1)
}

func TestResolve_CustomStubsWithEmptyPathYieldsBaseOnly(t *testing.T) {
	t.Parallel()
	s := settings.Default()
	s.UnityAPISurface = settings.SurfaceCustomStubs
	s.CustomStubPath = ""

	refs := Resolve(s, "/unused", discardLogger())
	assert.Len(t, refs, len(baseRuntimeAssemblies))
}

func TestResolve_MissingStubDirectoryIsNotFatal(t *testing.T) {
	t.Parallel()
	s := settings.Default()
	s.UnityAPISurface = settings.SurfaceBundledStubs

	refs := Resolve(s, filepath.Join(t.TempDir(), "does-not-exist"), discardLogger())
	assert.Len(t, refs, len(baseRuntimeAssemblies))
}
