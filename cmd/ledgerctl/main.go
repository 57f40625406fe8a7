package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/ledgerstore/ledgerlog"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "ledgerctl inspects and seeds a ledger transaction store",
	Long: `ledgerctl is a thin command-line shell over the ledgerstore library:
it opens a bbolt-backed transaction store, reads transactions back out of
it, and seeds synthetic ones for local testing.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("ledgerctl version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().String("db", "ledger.db", "Path to the bbolt database file")
	rootCmd.PersistentFlags().Uint16("dev", 0, "Dev-namespace tag to open the store under")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(getTxCmd)
	rootCmd.AddCommand(findProgramCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(verifyCmd)
}

func initLogging() {
	levelStr, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonOut, _ := rootCmd.PersistentFlags().GetBool("log-json")
	ledgerlog.Init(ledgerlog.Config{
		Level:      ledgerlog.Level(levelStr),
		JSONOutput: jsonOut,
		Output:     os.Stderr,
	})
}
