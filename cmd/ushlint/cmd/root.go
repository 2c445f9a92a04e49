// Package cmd implements the ushlint command-line front end: starting the
// LSP server over stdio, running batch lint checks, and introspecting the
// loaded rule catalogue, all sharing the same policy/engine wiring the
// server uses.
package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/project-sakanah/udonsharp-linter/internal/version"

	_ "github.com/project-sakanah/udonsharp-linter/internal/rules/apiexposure"
	_ "github.com/project-sakanah/udonsharp-linter/internal/rules/attributes"
	_ "github.com/project-sakanah/udonsharp-linter/internal/rules/languageconstraints"
	_ "github.com/project-sakanah/udonsharp-linter/internal/rules/networkevents"
	_ "github.com/project-sakanah/udonsharp-linter/internal/rules/runtimerestrictions"
	_ "github.com/project-sakanah/udonsharp-linter/internal/rules/structure"
	_ "github.com/project-sakanah/udonsharp-linter/internal/rules/synchronization"
)

// bundledDirFlag and bundledStubsDirFlag name the two on-disk roots every
// subcommand that touches the policy repository or reference resolver
// needs, mirroring the server's own bundledDir/bundledStubsDir wiring.
const (
	bundledDirFlag      = "policy-dir"
	bundledStubsDirFlag = "stubs-dir"
	policyPathFlag      = "policy-pack"
)

// policyFlags returns the policy-location flags shared by every
// subcommand that builds a Policy Repository, redeclared on each command
// rather than hoisted onto the root, mirroring the teacher's own
// per-subcommand flag redeclaration in cmd/lint.go and cmd/check.go.
func policyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    bundledDirFlag,
			Usage:   "directory of bundled rule-pack JSON files",
			Value:   "PolicyPacks",
			Sources: cli.EnvVars("USHLINT_POLICY_DIR"),
		},
		&cli.StringFlag{
			Name:    bundledStubsDirFlag,
			Usage:   "directory of bundled Unity/VRChat API stub DLLs",
			Value:   "Stubs/Generated",
			Sources: cli.EnvVars("USHLINT_STUBS_DIR"),
		},
		&cli.StringSliceFlag{
			Name:    policyPathFlag,
			Usage:   "additional rule-pack file or directory (repeatable)",
			Sources: cli.EnvVars("USHLINT_EXTRA_POLICY_PATHS"),
		},
	}
}

// NewApp builds the ushlint root command.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "ushlint",
		Usage:   "Static analysis for UdonSharp scripts",
		Version: version.Version(),
		Commands: []*cli.Command{
			newLSPCommand(),
			newLintCommand(),
			newRulesCommand(),
			newVersionCommand(),
		},
	}
}

// Execute runs the ushlint CLI against the process arguments, returning a
// non-zero-exit-worthy error for main to report.
func Execute(ctx context.Context, args []string) error {
	if err := NewApp().Run(ctx, args); err != nil {
		return fmt.Errorf("ushlint: %w", err)
	}
	return nil
}
