// Package settings resolves LSP configuration payloads into an immutable
// Settings snapshot, normalizing rule-override keys, severities, and
// stub-surface paths, and reports whether a newly resolved snapshot
// differs structurally from the last one so callers only react to real
// configuration changes.
package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/project-sakanah/udonsharp-linter/internal/rules"
)

// ApiSurface is one of the recognised unityApiSurface values.
type ApiSurface string

const (
	SurfaceBundledStubs ApiSurface = "bundled-stubs"
	SurfaceCustomStubs  ApiSurface = "custom-stubs"
	SurfaceNone         ApiSurface = "none"
)

// Telemetry is one of the recognised telemetry values.
type Telemetry string

const (
	TelemetryOff     Telemetry = "off"
	TelemetryMinimal Telemetry = "minimal"
)

// ConfigKey is the LSP configuration-section key this resolver reads
// payloads under, per spec.md §6.
const ConfigKey = "udonsharpLinter"

// Raw is the wire shape of a udonsharpLinter configuration payload, as
// received via initializationOptions or didChangeConfiguration.
type Raw struct {
	Profile            string            `koanf:"profile"`
	RuleOverrides      map[string]string `koanf:"ruleOverrides"`
	UnityAPISurface    string            `koanf:"unityApiSurface"`
	CustomStubPath     string            `koanf:"customStubPath"`
	AllowRefOut        bool              `koanf:"allowRefOut"`
	CodeActionsEnabled bool              `koanf:"codeActionsEnabled"`
	Telemetry          string            `koanf:"telemetry"`
	PolicyPackPaths    []string          `koanf:"policyPackPaths"`
}

// Settings is the immutable, normalized snapshot consumed by the rest of
// the server, per spec.md §3.
type Settings struct {
	ProfileName        string
	RuleOverrides      map[string]rules.Severity // keys upper-cased
	UnityAPISurface    ApiSurface
	CustomStubPath     string // absolute; "" unless UnityAPISurface == custom-stubs
	AllowRefOut        bool
	CodeActionsEnabled bool
	Telemetry          Telemetry
	PolicyPackPaths    []string // absolute
}

// Profile implements policy.SettingsView.
func (s *Settings) Profile() string { return s.ProfileName }

// RuleOverride implements policy.SettingsView.
func (s *Settings) RuleOverride(id string) (rules.Severity, bool) {
	sev, ok := s.RuleOverrides[strings.ToUpper(id)]
	return sev, ok
}

// Default returns the built-in defaults, applied before any user payload
// is layered on top.
func Default() Settings {
	return Settings{
		ProfileName:        "latest",
		RuleOverrides:      map[string]rules.Severity{},
		UnityAPISurface:    SurfaceBundledStubs,
		AllowRefOut:        false,
		CodeActionsEnabled: true,
		Telemetry:          TelemetryMinimal,
	}
}

// Resolve layers a raw configuration payload over defaults using koanf,
// the way the teacher's internal/config layers TOML/env over defaults
// with structs.Provider/confmap.Provider, then normalizes the result.
func Resolve(payload map[string]any, workspaceRoot string) Settings {
	def := Default()

	k := koanf.New(".")
	_ = k.Load(structs.Provider(rawFromSettings(def), "koanf"), nil)
	if len(payload) > 0 {
		_ = k.Load(confmap.Provider(payload, "."), nil)
	}

	var raw Raw
	_ = k.Unmarshal("", &raw)

	out := Settings{
		ProfileName:        raw.Profile,
		RuleOverrides:      normalizeOverrides(raw.RuleOverrides),
		UnityAPISurface:    ApiSurface(raw.UnityAPISurface),
		AllowRefOut:        raw.AllowRefOut,
		CodeActionsEnabled: raw.CodeActionsEnabled,
		Telemetry:          Telemetry(raw.Telemetry),
		PolicyPackPaths:    resolvePaths(raw.PolicyPackPaths, workspaceRoot),
	}
	if out.UnityAPISurface == SurfaceCustomStubs {
		out.CustomStubPath = resolvePath(raw.CustomStubPath, workspaceRoot)
	}
	return out
}

func rawFromSettings(s Settings) Raw {
	overrides := make(map[string]string, len(s.RuleOverrides))
	for id, sev := range s.RuleOverrides {
		overrides[id] = sev.String()
	}
	return Raw{
		Profile:            s.ProfileName,
		RuleOverrides:      overrides,
		UnityAPISurface:    string(s.UnityAPISurface),
		CustomStubPath:     s.CustomStubPath,
		AllowRefOut:        s.AllowRefOut,
		CodeActionsEnabled: s.CodeActionsEnabled,
		Telemetry:          string(s.Telemetry),
		PolicyPackPaths:    s.PolicyPackPaths,
	}
}

func normalizeOverrides(raw map[string]string) map[string]rules.Severity {
	out := make(map[string]rules.Severity, len(raw))
	for id, sevStr := range raw {
		sev, err := rules.ParseSeverity(sevStr)
		if err != nil {
			continue
		}
		out[strings.ToUpper(id)] = sev
	}
	return out
}

func resolvePaths(paths []string, workspaceRoot string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, resolvePath(p, workspaceRoot))
	}
	return out
}

// resolvePath expands a leading "~" to the user's home directory and
// resolves a relative path against workspaceRoot, per spec.md §4.3.
func resolvePath(p, workspaceRoot string) string {
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(workspaceRoot, p)
	}
	return filepath.Clean(p)
}

// Changed reports whether b differs structurally from a, so callers only
// react to a real configuration change, per spec.md §4.3.
func Changed(a, b Settings) bool {
	return !reflect.DeepEqual(a, b)
}
