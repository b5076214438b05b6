package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/codeaudit/internal/config"
	"github.com/standardbeagle/codeaudit/internal/types"
)

func configInitCommand(c *cli.Context) error {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	output := filepath.Join(root, types.DefaultConfigFile)

	if !c.Bool("force") {
		if _, err := os.Stat(output); err == nil {
			return cli.Exit(fmt.Sprintf("configuration file %s already exists (use --force to overwrite)", output), exitUsage)
		}
	}

	cfg := config.Default(".")
	if err := os.WriteFile(output, []byte(config.ToKDL(cfg)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Configuration file created: %s\n", output)
	fmt.Fprintf(c.App.Writer, "\nCommon customizations:\n")
	fmt.Fprintf(c.App.Writer, "  - Add project exclusions: exclude { \"**/migrations/**\" }\n")
	fmt.Fprintf(c.App.Writer, "  - Disable the Graphviz image: report { graph \"text\" }\n")
	return nil
}

func configShowCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	fmt.Fprint(c.App.Writer, config.ToKDL(cfg))
	return nil
}

func configValidateCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Configuration is valid (root %s, %d include and %d exclude patterns)\n",
		cfg.Project.Root, len(cfg.Discovery.Include), len(cfg.Discovery.Exclude))
	return nil
}
