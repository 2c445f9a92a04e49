package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/project-sakanah/udonsharp-linter/internal/lspserver"
	"github.com/project-sakanah/udonsharp-linter/internal/obslog"
	"github.com/project-sakanah/udonsharp-linter/internal/policy"
)

func newLSPCommand() *cli.Command {
	flags := append(policyFlags(),
		&cli.StringFlag{
			Name:    "log-dir",
			Usage:   "directory for server.log/boot.log/fatal.log (discarded if unset)",
			Sources: cli.EnvVars("USHLINT_LOG_DIR"),
		},
	)

	return &cli.Command{
		Name:  "lsp",
		Usage: "Start the UdonSharp language server on stdio",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			loggers := obslog.Discard()
			if dir := cmd.String("log-dir"); dir != "" {
				opened, err := obslog.Open(dir)
				if err != nil {
					return fmt.Errorf("opening log directory: %w", err)
				}
				defer opened.Close()
				loggers = opened
			}

			repo, reg := loadRepository(cmd, loggers.Boot)

			if extraPaths := cmd.StringSlice(policyPathFlag); len(extraPaths) > 0 {
				watcher, err := policy.NewWatcher(repo, cmd.String(bundledDirFlag), extraPaths, loggers.Boot)
				if err != nil {
					loggers.Boot.WithError(err).Warn("lsp: failed to start policy-pack watcher")
				} else {
					defer watcher.Close()
					go watcher.Run(ctx)
				}
			}

			srv := lspserver.New(loggers.Server, repo, reg, cmd.String(bundledDirFlag), cmd.String(bundledStubsDirFlag))
			if err := srv.RunStdio(ctx); err != nil {
				loggers.Fatal.WithError(err).Error("lsp: server exited with error")
				return err
			}
			return nil
		},
	}
}
