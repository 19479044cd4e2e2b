package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCacheCmd = &cobra.Command{
	Use:   "refresh [org]",
	Short: "Refetch organization and repository payloads into the cache",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRefreshCache,
}

func init() {
	cacheCmd.AddCommand(refreshCacheCmd)
}

func runRefreshCache(cmd *cobra.Command, args []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	orgs, err := orgArgs(s.cfg, args)
	if err != nil {
		return err
	}

	for _, org := range orgs {
		fmt.Printf("Refreshing cache for %s...\n", org)

		if _, err := invalidateOrg(s.cache, org); err != nil {
			fmt.Printf("Failed to refresh %s: %v\n", org, err)
			continue
		}

		repos, err := s.newClient(org).PublicRepos(cmd.Context(), "")
		if err != nil {
			fmt.Printf("Failed to refresh %s: %v\n", org, err)
			continue
		}

		fmt.Printf("✓ Cached %d repositories from %s\n", len(repos), org)
	}

	return nil
}
