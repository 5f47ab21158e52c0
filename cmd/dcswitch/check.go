package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clustertools/dcswitch/internal/app"
)

var checkFrom string
var checkTo string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry-run the switchover checks without mutating anything",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := app.NewApp(configFile, logLevel)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		os.Exit(app.CliCheck(checkFrom, checkTo))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkFrom, "from", "", "site to migrate leadership away from")
	checkCmd.Flags().StringVar(&checkTo, "to", "", "site to migrate leadership to")
}
