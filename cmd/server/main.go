// Package main is the entry point for the tableforge server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tableforge",
	Short: "Tableforge session server",
	Long:  `Tableforge runs shared tabletop RPG sessions: dice, worlds, characters, and real-time sync over websockets.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
