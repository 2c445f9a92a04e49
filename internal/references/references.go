// Package references resolves the set of compilation references a
// workspace's documents are checked against: a fixed base runtime set
// plus whatever the resolved unityApiSurface setting adds.
package references

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"

	"github.com/project-sakanah/udonsharp-linter/internal/settings"
)

// baseRuntimeAssemblies is the small set of well-known runtime assemblies
// always present, regardless of unityApiSurface, per spec.md §4.4.
var baseRuntimeAssemblies = []string{
	"VRCSDK3.dll",
	"UdonSharp.dll",
	"UnityEngine.CoreModule.dll",
	"mscorlib.dll",
}

// Reference is one resolved compilation reference: either a base runtime
// assembly name (Path empty) or a path to a stub .dll on disk.
type Reference struct {
	Name string
	Path string // "" for a base runtime assembly
}

// Resolve returns the reference list for the given settings. bundledStubsDir
// is the server's own Stubs/Generated directory. Missing directories and
// individual file-stat failures are logged and skipped rather than
// treated as fatal, per spec.md §4.4.
func Resolve(s settings.Settings, bundledStubsDir string, log *logrus.Logger) []Reference {
	out := make([]Reference, 0, len(baseRuntimeAssemblies))
	for _, name := range baseRuntimeAssemblies {
		out = append(out, Reference{Name: name})
	}

	switch s.UnityAPISurface {
	case settings.SurfaceBundledStubs:
		out = append(out, loadDLLs(bundledStubsDir, log)...)
	case settings.SurfaceCustomStubs:
		if s.CustomStubPath != "" {
			out = append(out, loadDLLs(s.CustomStubPath, log)...)
		}
	case settings.SurfaceNone:
		// base only.
	}
	return out
}

func loadDLLs(dir string, log *logrus.Logger) []Reference {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); err != nil {
		log.WithError(err).WithField("dir", dir).Warn("references: stub directory unavailable")
		return nil
	}
	var out []Reference
	var walk func(string)
	walk = func(d string) {
		items, err := readDirWithRetry(d, log)
		if err != nil {
			log.WithError(err).WithField("dir", d).Warn("references: failed to read stub directory")
			return
		}
		for _, e := range items {
			full := filepath.Join(d, e.Name())
			if e.IsDir() {
				walk(full)
				continue
			}
			if filepath.Ext(e.Name()) != ".dll" {
				continue
			}
			if _, err := os.Stat(full); err != nil {
				log.WithError(err).WithField("path", full).Warn("references: failed to stat stub")
				continue
			}
			out = append(out, Reference{Name: e.Name(), Path: full})
		}
	}
	walk(dir)
	return out
}

// readDirWithRetry reads a stub directory, retrying with exponential
// backoff on transient I/O errors (e.g. a network-mounted stub share
// briefly unavailable). A missing directory is permanent and fails fast.
func readDirWithRetry(dir string, log *logrus.Logger) ([]os.DirEntry, error) {
	return backoff.Retry(context.Background(), func() ([]os.DirEntry, error) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return entries, nil
	},
		backoff.WithBackOff(stubDirBackoff()),
		backoff.WithMaxTries(3),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, d time.Duration) {
			log.WithError(err).WithField("dir", dir).WithField("wait", d).
				Warn("references: retrying stub directory read")
		}),
	)
}

func stubDirBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.Multiplier = 2.0
	return b
}
