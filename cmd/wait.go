package cmd

import (
	"fmt"
	"time"

	"github.com/kirksw/orgscope/internal/delay"
	"github.com/spf13/cobra"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait a random delay, or several concurrently",
	Long:  `Wait a random delay below --max-delay. With -n, run that many waits concurrently and print each delay as it finishes.`,
	Args:  cobra.NoArgs,
	RunE:  runWait,
}

var (
	maxDelay  time.Duration
	waitCount int
)

func init() {
	rootCmd.AddCommand(waitCmd)

	waitCmd.Flags().DurationVar(&maxDelay, "max-delay", delay.DefaultMaxDelay, "upper bound of each delay")
	waitCmd.Flags().IntVarP(&waitCount, "count", "n", 1, "number of concurrent waits")
}

func runWait(cmd *cobra.Command, args []string) error {
	if waitCount < 1 {
		return fmt.Errorf("count must be at least 1, got %d", waitCount)
	}
	if maxDelay < 0 {
		return fmt.Errorf("max-delay must not be negative, got %s", maxDelay)
	}

	w := delay.New()
	delays, err := w.WaitN(cmd.Context(), waitCount, maxDelay)
	if err != nil {
		return err
	}

	for _, d := range delays {
		fmt.Println(d.Round(time.Millisecond))
	}
	return nil
}
