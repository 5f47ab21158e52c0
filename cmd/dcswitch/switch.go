package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clustertools/dcswitch/internal/app"
)

var switchFrom string
var switchTo string

var switchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Migrate cluster leadership from one site to another",
	Long:  "Runs the six-phase switchover protocol. Aborts on the first failure with no rollback; the log records how far the migration progressed.",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := app.NewApp(configFile, logLevel)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		os.Exit(app.CliSwitch(switchFrom, switchTo))
	},
}

func init() {
	rootCmd.AddCommand(switchCmd)
	switchCmd.Flags().StringVar(&switchFrom, "from", "", "site to migrate leadership away from")
	switchCmd.Flags().StringVar(&switchTo, "to", "", "site to migrate leadership to")
}
