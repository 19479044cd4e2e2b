package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCacheCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached payloads",
	RunE:  runListCache,
}

func init() {
	cacheCmd.AddCommand(listCacheCmd)
}

func runListCache(cmd *cobra.Command, args []string) error {
	_, c, err := loadConfigAndCache()
	if err != nil {
		return err
	}

	entries, err := c.Entries()
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No cached payloads found")
		return nil
	}

	fmt.Printf("Cached payloads in %s:\n", c.Dir())
	for _, entry := range entries {
		state := ""
		if entry.Expired {
			state = " (expired)"
		}
		fmt.Printf("  %s (cached %s)%s\n", entry.URL, humanize.Time(entry.CachedAt), state)
	}

	return nil
}
