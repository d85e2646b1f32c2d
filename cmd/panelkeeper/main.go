package main

import (
	"fmt"
	"os"
	"panelkeeper/internal/di"
	"panelkeeper/internal/structures"

	"github.com/spf13/cobra"
)

var flags structures.CliFlags

var rootCmd = &cobra.Command{
	Use:           "panelkeeper",
	Short:         "Tracks panels, maintenance fixes and daily payouts",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := di.InitApp(&flags)
		if err != nil {
			return err
		}
		defer cleanup()
		return app.Run()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the stored snapshot as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, cleanup, err := di.InitExporter(&flags)
		if err != nil {
			return err
		}
		defer cleanup()
		return exporter.Export(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "Log to the console as well")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "panelkeeper:", err)
		os.Exit(1)
	}
}
