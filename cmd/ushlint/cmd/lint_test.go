package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectScriptFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Player.cs"), []byte("class Player {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "World.cs"), []byte("class World {}"), 0o644))

	got, err := collectScriptFiles([]string{dir})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, filepath.Join(dir, "Player.cs"), got[0])
	require.Equal(t, filepath.Join(sub, "World.cs"), got[1])
}

func TestCollectScriptFiles_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Player.cs")
	require.NoError(t, os.WriteFile(path, []byte("class Player {}"), 0o644))

	got, err := collectScriptFiles([]string{path})
	require.NoError(t, err)
	require.Equal(t, []string{path}, got)
}

func TestCollectScriptFiles_MissingPath(t *testing.T) {
	_, err := collectScriptFiles([]string{filepath.Join(t.TempDir(), "missing.cs")})
	require.Error(t, err)
}

func TestRunLint_NoViolationsExitsClean(t *testing.T) {
	dir := t.TempDir()
	src := "namespace Game {\n    class Empty {}\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Empty.cs"), []byte(src), 0o644))

	app := NewApp()
	err := app.Run(context.Background(), []string{"ushlint", "lint", "--output", os.DevNull, dir})
	require.NoError(t, err)
}
