package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/project-sakanah/udonsharp-linter/internal/obslog"
)

func newRulesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "Inspect the loaded rule catalogue",
		Commands: []*cli.Command{
			newRulesListCommand(),
			newRulesDocCommand(),
		},
	}
}

func newRulesListCommand() *cli.Command {
	flags := append(policyFlags(),
		&cli.BoolFlag{Name: "json", Usage: "print as JSON instead of a table"},
	)
	return &cli.Command{
		Name:  "list",
		Usage: "List every rule in the loaded policy packs",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			repo, _ := loadRepository(cmd, obslog.Discard().Server)
			all := repo.AllRules()

			if cmd.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(all)
			}
			for _, def := range all {
				fmt.Printf("%-10s %-8s %s\n", def.ID, def.DefaultSeverity, def.Title)
			}
			return nil
		},
	}
}

func newRulesDocCommand() *cli.Command {
	flags := append(policyFlags(),
		&cli.StringFlag{Name: "locale", Value: "en-US", Usage: "documentation locale"},
	)
	return &cli.Command{
		Name:      "doc",
		Usage:     "Show documentation for a single rule ID",
		ArgsUsage: "<rule-id>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) == 0 {
				return cli.Exit("ushlint rules doc: a rule ID is required", 1)
			}
			id := args[0]

			repo, _ := loadRepository(cmd, obslog.Discard().Server)
			def, ok := repo.GetRule(id)
			if !ok {
				return cli.Exit(fmt.Sprintf("ushlint rules doc: unknown rule %q", id), 1)
			}

			fmt.Printf("%s: %s\n\n%s\n", def.ID, def.Title, def.Message)
			if def.HelpURI != "" {
				fmt.Printf("\n%s\n", def.HelpURI)
			}
			if doc := repo.GetDocumentation(id, cmd.String("locale")); doc != nil {
				for k, v := range doc {
					fmt.Printf("\n%s:\n%s\n", k, v)
				}
			}
			return nil
		},
	}
}
