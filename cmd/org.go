package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/kirksw/orgscope/internal/config"
	"github.com/kirksw/orgscope/internal/nested"
	"github.com/spf13/cobra"
)

var orgCmd = &cobra.Command{
	Use:   "org <name>",
	Short: "Show an organization payload",
	Long:  `Show an organization payload, or one field of it with --path (e.g. --path repos_url).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runOrg,
}

var orgPath string

func init() {
	rootCmd.AddCommand(orgCmd)

	orgCmd.Flags().StringVarP(&orgPath, "path", "p", "", "dotted key path into the payload")
}

func runOrg(cmd *cobra.Command, args []string) error {
	org, err := config.ParseOrgName(args[0])
	if err != nil {
		return err
	}

	s, err := newStack()
	if err != nil {
		return err
	}

	payload, err := s.newClient(org).Org(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", org, err)
	}

	value, err := nested.Access(payload, nested.ParsePath(orgPath)...)
	if err != nil {
		return err
	}

	out, err := renderValue(value)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// renderValue prints strings bare and everything else as indented JSON.
func renderValue(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode value: %w", err)
	}
	return string(data), nil
}
