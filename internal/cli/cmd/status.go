package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/matjam/beambar/internal/cli/cmd/utils"
	"github.com/matjam/beambar/internal/ipc"
	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get beambar status",
		Long:  `Returns the current status of the running beambar process.`,
		Run: func(cmd *cobra.Command, args []string) {
			response, err := ipc.SendStatus()
			if err != nil {
				log.Fatalf("Error sending command: %v", err)
			}

			utils.PrintJSONColored(response)
		},
	}
}
