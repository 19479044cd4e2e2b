package cmd

import (
	"fmt"
	"strings"

	"github.com/kirksw/orgscope/internal/cache"
	"github.com/kirksw/orgscope/internal/config"
	"github.com/spf13/cobra"
)

var invalidateCacheCmd = &cobra.Command{
	Use:   "invalidate [org]",
	Short: "Invalidate cache (all or specific organization)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInvalidateCache,
}

func init() {
	cacheCmd.AddCommand(invalidateCacheCmd)
}

func runInvalidateCache(cmd *cobra.Command, args []string) error {
	_, c, err := loadConfigAndCache()
	if err != nil {
		return err
	}

	org := ""
	if len(args) == 1 {
		org, err = config.ParseOrgName(args[0])
		if err != nil {
			return err
		}
	}

	removed, err := invalidateOrg(c, org)
	if err != nil {
		return err
	}

	if removed == 0 {
		fmt.Println("No cached payloads found")
		return nil
	}

	target := "all organizations"
	if org != "" {
		target = org
	}
	fmt.Printf("✓ Cache invalidated for %s (%d payloads)\n", target, removed)
	return nil
}

// invalidateOrg removes every cached URL belonging to org, or everything
// when org is empty.
func invalidateOrg(c *cache.PayloadCache, org string) (int, error) {
	entries, err := c.Entries()
	if err != nil {
		return 0, fmt.Errorf("failed to list cache: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if org != "" && !belongsToOrg(entry.URL, org) {
			continue
		}
		if err := c.Invalidate(entry.URL); err != nil {
			return removed, fmt.Errorf("failed to invalidate %s: %w", entry.URL, err)
		}
		removed++
	}
	return removed, nil
}

func belongsToOrg(url, org string) bool {
	marker := "/orgs/" + org
	i := strings.Index(url, marker)
	if i < 0 {
		return false
	}
	rest := url[i+len(marker):]
	return rest == "" || strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "?")
}
