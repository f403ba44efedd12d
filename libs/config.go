package libs

import (
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// PreExecuteConfiguration wires viper config discovery into cmd: an explicit
// --config flag wins, otherwise a ".{name}" file is looked up in the home
// directory and the working directory. Environment variables override file
// values, with dots mapped to underscores.
func PreExecuteConfiguration(cmd *cobra.Command, name string, log *zap.Logger) {
	cfgFile := cmd.PersistentFlags().StringP("config", "c", "", "config file")

	cobra.OnInitialize(func() {
		if *cfgFile != "" {
			viper.SetConfigFile(*cfgFile)
		} else {
			home, err := homedir.Dir()
			if err != nil {
				log.Error("Couldn't locate home directory", zap.Error(err))
			} else {
				viper.AddConfigPath(home)
			}
			viper.AddConfigPath(".")
			viper.SetConfigName("." + name)
		}

		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		if err := viper.ReadInConfig(); err == nil {
			log.Info("Using config file", zap.String("file", viper.ConfigFileUsed()))
		}
	})
}

// Execute runs the root command and exits non-zero on failure.
func Execute(cmd *cobra.Command, log *zap.Logger) {
	if err := cmd.Execute(); err != nil {
		log.Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}

// requireKeys fails when any of the given viper keys is unset.
func requireKeys(keys ...string) error {
	for _, key := range keys {
		if len(viper.GetString(key)) == 0 {
			return errors.Errorf("%s must be provided", key)
		}
	}
	return nil
}
