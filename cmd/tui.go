package cmd

import (
	"fmt"

	"github.com/kirksw/orgscope/internal/config"
	"github.com/kirksw/orgscope/internal/ui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui <org>",
	Short: "Browse an organization's public repositories interactively",
	Args:  cobra.ExactArgs(1),
	RunE:  runTUI,
}

var tuiLicense string

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().StringVarP(&tuiLicense, "license", "l", "", "initial license filter")
}

func runTUI(cmd *cobra.Command, args []string) error {
	org, err := config.ParseOrgName(args[0])
	if err != nil {
		return err
	}

	s, err := newStack()
	if err != nil {
		return err
	}

	repos, err := s.newClient(org).Repos(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list repos for %s: %w", org, err)
	}

	result, err := ui.RunBrowser(org, repos, tuiLicense)
	if err != nil {
		return err
	}
	if result.Cancelled || result.Repo == nil {
		return nil
	}

	fmt.Println(result.Repo.HTMLURL)
	return nil
}
