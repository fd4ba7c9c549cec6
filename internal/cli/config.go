package cli

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/matjam/beambar/internal/script"
	"github.com/matjam/beambar/internal/preview"
	"github.com/matjam/beambar/internal/render"
	"github.com/matjam/beambar/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("beambar")
		viper.SetConfigType("toml")
		if viper.GetString("config") != "" {
			viper.SetConfigFile(viper.GetString("config"))
		} else {
			viper.AddConfigPath("$HOME/.config/beambar")
			viper.AddConfigPath("/etc/xdg/beambar")
		}
	}

	setDefaults()

	viper.SetEnvPrefix("beambar")
	viper.AutomaticEnv() // read environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			cobra.CheckErr(err)
		}
		log.Debug("No config file found, using defaults")
	}

	if viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
}

func setDefaults() {
	viper.SetDefault("debug", false)
	viper.SetDefault("font", "")
	viper.SetDefault("font_size", 14.0)
	viper.SetDefault("dpi", 72.0)
	viper.SetDefault("namespace", "beam")
	viper.SetDefault("layer", string(types.LayerBottom))
	viper.SetDefault("command_timeout", script.DefaultCommandTimeout)
	viper.SetDefault("preview.interval", preview.DefaultInterval)
	viper.SetDefault("preview.spacer", render.DefaultSpacer)
}
