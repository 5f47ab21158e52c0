package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string
var logLevel string

var rootCmd = &cobra.Command{
	Use:   "dcswitch",
	Short: "dcswitch is a cross-DC switchover tool for Patroni-managed PostgreSQL clusters",
	Long:  `Coordinates leadership migration of a replicated cluster between two sites, one verified tag mutation at a time.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/dcswitch.yaml", "config file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "", "logging level (Debug|Info|Warn|Error|Fatal), config default if empty")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
