package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/codeaudit/internal/debug"
	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
	"github.com/standardbeagle/codeaudit/internal/version"
)

// Process exit codes
const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func newApp() *cli.App {
	return &cli.App{
		Name:                   "codeaudit",
		Usage:                  "Architectural audit of a Python codebase",
		ArgsUsage:              "[directory]",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: <root>/.codeaudit.kdl when present)",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory to audit (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Audit files matching glob patterns (e.g., --include 'src/**/*.py')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/migrations/**')",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Parallel extraction workers (0 = auto)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only print errors",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug logs to stderr",
			},
			&cli.StringFlag{
				Name:    "debug-log",
				Usage:   "Write debug logs to this file instead of stderr (implies --debug)",
				EnvVars: []string{"DEBUG_LOG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "audit",
				Aliases:   []string{"a"},
				Usage:     "Audit a project and write the report",
				ArgsUsage: "[directory]",
				Flags:     reportFlags(),
				Action:    auditCommand,
			},
			{
				Name:      "watch",
				Usage:     "Re-run the audit whenever Python or data files change",
				ArgsUsage: "[directory]",
				Flags: append(reportFlags(), &cli.IntFlag{
					Name:  "debounce",
					Usage: "Quiet period in milliseconds before re-running (overrides config)",
				}),
				Action: watchCommand,
			},
			{
				Name:  "config",
				Usage: "Configuration management",
				Subcommands: []*cli.Command{
					{
						Name:  "init",
						Usage: "Write a .codeaudit.kdl with the default settings",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "force",
								Usage: "Overwrite existing configuration file",
							},
						},
						Action: configInitCommand,
					},
					{
						Name:   "show",
						Usage:  "Print the effective configuration",
						Action: configShowCommand,
					},
					{
						Name:   "validate",
						Usage:  "Validate the configuration",
						Action: configValidateCommand,
					},
				},
			},
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, version.FullInfo())
					fmt.Fprintln(c.App.Writer, "build "+version.BuildID())
					return nil
				},
			},
		},
		Before: func(c *cli.Context) error {
			debug.SetQuietMode(c.Bool("quiet"))
			logPath := c.String("debug-log")
			if c.Bool("debug") || logPath != "" {
				debug.EnableDebug = "true"
			}
			if !debug.IsDebugEnabled() {
				return nil
			}
			if logPath == "" {
				debug.SetDebugOutput(c.App.ErrWriter)
				return nil
			}
			if _, err := debug.InitDebugLogFile(logPath); err != nil {
				return cli.Exit(err.Error(), exitUsage)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
		// A bare directory argument runs the audit
		Action: auditCommand,
		OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
			return cli.Exit(err.Error(), exitUsage)
		},
	}
}

func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Report path, relative to the project root; - writes to stdout",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Report format: markdown, json, yaml",
		},
		&cli.StringFlag{
			Name:  "graph",
			Usage: "Dependency graph: auto, dot, text, none",
		},
		&cli.StringFlag{
			Name:  "tables",
			Usage: "Table style: markdown, plain",
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newApp().RunContext(ctx, os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a run error to the process exit status
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	var cfgErr *auditerrors.ConfigError
	if errors.As(err, &cfgErr) {
		return exitUsage
	}
	return exitFatal
}
