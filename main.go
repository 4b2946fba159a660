package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:   "roomie-match",
		Short: "Roommate compatibility matching backend",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional, ROOMIE_* env vars always apply)")
	root.AddCommand(serveCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
