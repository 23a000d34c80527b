package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "counter-cli",
	Short: "Counter program command line tool",
	Long: `Counter program command line tool for creating counters and
incrementing them with a signing key.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./counter.db", "SQLite state database")
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(incrementCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(greetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
