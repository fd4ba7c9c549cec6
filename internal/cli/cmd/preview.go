package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/matjam/beambar/internal/preview"
	"github.com/matjam/beambar/internal/render"
	"github.com/matjam/beambar/internal/widget"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewPreviewCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "preview [script]",
		Short: "Render a layout script in the terminal",
		Long: `Evaluates the layout script and draws it as one line of text, refreshed
every preview.interval. Spacers are shown as preview.spacer.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadLayout(args[0])
			if err != nil {
				log.Fatalf("Error loading layout: %v", err)
			}

			term := render.NewTerminal(widget.NewCache(clockwork.NewRealClock()), viper.GetString("preview.spacer"))

			if once, _ := cmd.Flags().GetBool("once"); once {
				fmt.Println(term.Render(cfg.Layout))
				return
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := preview.Run(ctx, cfg.Layout, term, viper.GetDuration("preview.interval")); err != nil {
				log.Fatalf("%v", err)
			}
		},
	}
	c.Flags().Bool("once", false, "Print a single line and exit")
	return c
}
