/*
Copyright © 2025 Nathan Ollerenshaw <chrome@stupendous.net>
*/
package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/matjam/beambar"
	"github.com/matjam/beambar/internal/cli/cmd"
	"github.com/matjam/beambar/internal/cli/cmd/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "beambar [script]",
	Short: "A minimal Wayland status bar",
	Long: `beambar draws a thin status bar along the top or bottom edge of the
screen using the wlr layer-shell protocol. Its widgets are described by an
HCL layout script.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(c *cobra.Command, args []string) {
		if v, err := c.Flags().GetBool("installconfig"); err == nil && v {
			utils.InstallDefaultConfig()
			return
		}

		if v, err := c.Flags().GetBool("show-config"); err == nil && v {
			log.Infof("Using config file: %v", viper.ConfigFileUsed())
			log.Infof("All settings:")
			utils.PrintJSONColored(viper.AllSettings())
			return
		}

		babyBlue := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
		yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
		green := lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
		if v, err := c.Flags().GetBool("version"); err == nil && v {
			log.Infof("%v version %v © 2025 %v",
				babyBlue.Render("beambar "),
				green.Render(strings.Trim(beambar.Version, "\n\r ")),
				yellow.Render("Nathan Ollerenshaw"))
			return
		}

		if len(args) == 0 {
			log.Fatal("No layout script given. Usage: beambar [script]")
		}

		scriptPath, err := filepath.Abs(utils.CanonicalPath(args[0]))
		if err != nil {
			log.Fatalf("Error resolving %s: %v", args[0], err)
		}

		if v, err := c.Flags().GetBool("background"); err == nil && v && os.Getenv("BACKGROUND_PROCESS") != "1" {
			dctx, parent := cmd.Daemonize()
			if parent {
				return
			}
			defer dctx.Release()
		}

		cmd.StartBar(scriptPath)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	RegisterFlags(rootCmd)

	rootCmd.AddCommand(cmd.NewPreviewCmd())
	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewStopCmd())
	rootCmd.AddCommand(cmd.NewGenManCmd(rootCmd))
}
