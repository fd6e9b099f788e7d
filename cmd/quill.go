package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/okozlov/quill/internal/app"
	"github.com/okozlov/quill/internal/config"
	"github.com/okozlov/quill/internal/constants"
	"github.com/okozlov/quill/pkg/cmd/root"
)

func Execute() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	viper.ReadInConfig()

	cobra.CheckErr(config.EnsureConfigExists(home))

	a, err := app.New(home)
	cobra.CheckErr(err)
	defer a.Log.Sync()

	rootCmd, err := root.NewCmdRoot(a)
	cobra.CheckErr(err)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
