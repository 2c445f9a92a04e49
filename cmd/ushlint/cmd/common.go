package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/project-sakanah/udonsharp-linter/internal/policy"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
)

// loadRepository builds a Policy Repository from the bundled rule-pack
// directory and any extra paths named on the command line, using
// rules.DefaultRegistry for the families registered by this binary's
// blank imports in root.go.
func loadRepository(cmd *cli.Command, log *logrus.Logger) (*policy.Repository, *rules.Registry) {
	bundledDir := cmd.String(bundledDirFlag)
	extraPaths := cmd.StringSlice(policyPathFlag)

	repo := policy.NewRepository(policy.Load(bundledDir, extraPaths, log))
	return repo, rules.DefaultRegistry()
}
