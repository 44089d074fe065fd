package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	config "diesel.com/mpm/config"
)

func newInitConfigCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a default solver config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitConfig(outPath)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "mpmsolve.yaml", "path to write the default config")

	return cmd
}

func runInitConfig(outPath string) error {
	v := viper.New()
	for key, value := range config.Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigFile(outPath)
	if err := v.WriteConfigAs(outPath); err != nil {
		return fmt.Errorf("init-config: writing %q: %w", outPath, err)
	}

	fmt.Printf("wrote default config to %s\n", outPath)
	return nil
}
