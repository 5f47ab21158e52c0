package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clustertools/dcswitch/internal/app"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print discovered topology with live cluster status",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := app.NewApp(configFile, logLevel)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		os.Exit(app.CliStatus())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
