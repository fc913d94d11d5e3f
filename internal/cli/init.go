package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rice8y/sdetails/internal/config"
	"github.com/rice8y/sdetails/internal/errors"
)

var initForce bool

// initCmd writes a starter .sdetails.yaml with the built-in defaults.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .sdetails.yaml configuration",
	Long: `Write a starter configuration file with the built-in defaults to the
current directory. Edit it to point at wrapper scripts for sinfo/squeue,
change the fetch timeout, or pin the color mode.

Examples:
  sdetails init
  sdetails init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}

func initCommand(force bool) error {
	path := config.ConfigFileName
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			path+" already exists",
			"Use --force to overwrite it")
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to encode default config",
			"This is a bug; please report it")
	}

	header := []byte("# sdetails configuration. All keys are optional.\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+path,
			"Check directory permissions")
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}
