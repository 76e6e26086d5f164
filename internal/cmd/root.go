// Package cmd defines the sprout CLI. Commands are thin: they wire config,
// logging, and the core packages together, print results, and map every
// failure to exit code 1. All catching and printing of errors happens here.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verdant-labs/sprout/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "sprout",
	Short: "Grow a personal learning curriculum with AI review",
	Long: `Sprout turns a topic into a phased learning curriculum, reviewed by a
technical and a pedagogical AI persona, and tracks your learning sessions
against it: wake to start a sitting, rest to close it with a handoff for
next time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		return 1
	}
	return 0
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is .sprout/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// A project-local .env may carry ANTHROPIC_API_KEY.
	_ = godotenv.Load()

	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.StateDirName)
		viper.AddConfigPath(config.ConfigDir())
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SPROUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.ReadInConfig()
}
