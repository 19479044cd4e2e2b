package cmd

import (
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the payload cache",
}

var (
	ttlString string
	noCache   bool
)

func init() {
	rootCmd.AddCommand(cacheCmd)

	rootCmd.PersistentFlags().StringVar(&ttlString, "ttl", "", "set custom cache TTL (e.g., 24h, 1h30m)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the payload cache")
}
