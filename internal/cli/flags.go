package cli

import (
	"github.com/spf13/cobra"

	"github.com/sdejongh/filesync/pkg/config"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
}

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command, global *GlobalFlags) {
	cmd.PersistentFlags().StringVar(
		&global.ConfigFile,
		"config",
		"",
		"config file (default is $XDG_CONFIG_HOME/filesync/config.yaml)",
	)
}

// loadConfig loads configuration from file or returns default
func loadConfig(global *GlobalFlags) (*config.Config, error) {
	if global.ConfigFile != "" {
		return config.LoadFromFile(global.ConfigFile)
	}
	return config.LoadDefault()
}
