package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/project-sakanah/udonsharp-linter/internal/engine"
	"github.com/project-sakanah/udonsharp-linter/internal/obslog"
	"github.com/project-sakanah/udonsharp-linter/internal/reporter"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
	"github.com/project-sakanah/udonsharp-linter/internal/settings"
	"github.com/project-sakanah/udonsharp-linter/internal/version"
	"github.com/project-sakanah/udonsharp-linter/internal/workspace"
)

func newLintCommand() *cli.Command {
	flags := append(policyFlags(),
		&cli.StringFlag{
			Name:    "format",
			Usage:   "output format: text, json, sarif, markdown, github-actions",
			Value:   string(reporter.FormatText),
			Sources: cli.EnvVars("USHLINT_FORMAT"),
		},
		&cli.StringFlag{
			Name:    "output",
			Usage:   "output path, or stdout/stderr",
			Value:   "stdout",
			Sources: cli.EnvVars("USHLINT_OUTPUT"),
		},
		&cli.StringFlag{
			Name:  "fail-level",
			Usage: "minimum severity (error, warning, information) that causes a non-zero exit",
			Value: "error",
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "policy profile to resolve severities against",
			Value: "latest",
		},
	)

	return &cli.Command{
		Name:      "lint",
		Usage:     "Lint one or more UdonSharp scripts or directories",
		ArgsUsage: "<path>...",
		Flags:     flags,
		Action:    runLint,
	}
}

func runLint(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	log := obslog.Discard().Server
	repo, reg := loadRepository(cmd, log)
	eng := engine.New(repo, reg, log)

	s := settings.Default()
	s.ProfileName = cmd.String("profile")

	files, err := collectScriptFiles(paths)
	if err != nil {
		return err
	}

	ws := workspace.New(log)
	ws.Initialise(s, cmd.String(bundledStubsDirFlag))
	for _, path := range files {
		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		ws.OpenOrUpdate(path, string(text))
	}

	proj := ws.Current()
	sources := make(map[string][]byte, len(files))
	var violations []rules.Violation
	for _, path := range files {
		doc := ws.Get(path)
		sources[path] = []byte(doc.Text)
		for _, d := range eng.Analyze(ctx, proj, doc) {
			v := d.Violation
			v.Severity = d.Severity
			violations = append(violations, v)
		}
	}

	format, err := reporter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	writer, closer, err := reporter.GetWriter(cmd.String("output"))
	if err != nil {
		return err
	}
	defer closer()

	rep, err := reporter.New(reporter.Options{
		Format:      format,
		Writer:      writer,
		ShowSource:  true,
		ToolName:    "ushlint",
		ToolVersion: version.Version(),
		ToolURI:     "https://github.com/project-sakanah/udonsharp-linter",
	})
	if err != nil {
		return err
	}
	metadata := reporter.ReportMetadata{FilesScanned: len(files), RulesEnabled: len(repo.AllRules())}
	if err := rep.Report(violations, sources, metadata); err != nil {
		return err
	}

	failLevel, err := rules.ParseSeverity(cmd.String("fail-level"))
	if err != nil {
		return err
	}
	for _, v := range violations {
		if v.Severity == failLevel || v.Severity.IsMoreSevereThan(failLevel) {
			return cli.Exit("", 1)
		}
	}
	return nil
}

func collectScriptFiles(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".cs" {
				return nil
			}
			out = append(out, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}
