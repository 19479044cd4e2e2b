package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kirksw/orgscope/internal/github"
	"github.com/spf13/cobra"
)

var reposCmd = &cobra.Command{
	Use:   "repos [org...]",
	Short: "List public repositories of organizations",
	Long:  `List public repositories of the given organizations, or of the configured ones, optionally filtered by license key.`,
	RunE:  runRepos,
}

var (
	licenseKey string
	longFormat bool
)

func init() {
	rootCmd.AddCommand(reposCmd)

	reposCmd.Flags().StringVarP(&licenseKey, "license", "l", "", "only repositories with this license key (e.g. apache-2.0)")
	reposCmd.Flags().BoolVar(&longFormat, "long", false, "show license, stars and creation date")
}

func runRepos(cmd *cobra.Command, args []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	orgs, err := orgArgs(s.cfg, args)
	if err != nil {
		return err
	}

	for i, org := range orgs {
		if len(orgs) > 1 {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s:\n", org)
		}

		client := s.newClient(org)

		if !longFormat {
			names, err := client.PublicRepos(cmd.Context(), licenseKey)
			if err != nil {
				return fmt.Errorf("failed to list repos for %s: %w", org, err)
			}
			for _, name := range names {
				fmt.Println(name)
			}
			continue
		}

		repos, err := client.Repos(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list repos for %s: %w", org, err)
		}
		for _, repo := range filterByLicense(repos, licenseKey) {
			fmt.Println(formatRepoLine(repo))
		}
	}

	return nil
}

func filterByLicense(repos []github.Repo, license string) []github.Repo {
	if license == "" {
		return repos
	}
	filtered := make([]github.Repo, 0, len(repos))
	for _, repo := range repos {
		if repo.LicenseKey() == license {
			filtered = append(filtered, repo)
		}
	}
	return filtered
}

func formatRepoLine(repo github.Repo) string {
	license := repo.LicenseKey()
	if license == "" {
		license = "-"
	}

	fields := []string{
		repo.Name,
		license,
		humanize.Comma(int64(repo.StargazersCount)) + " stars",
	}
	if !repo.CreatedAt.IsZero() {
		fields = append(fields, "created "+humanize.Time(repo.CreatedAt))
	}
	return strings.Join(fields, "\t")
}
