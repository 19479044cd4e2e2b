package cmd

import (
	"fmt"
	"time"

	"github.com/kirksw/orgscope/internal/delay"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Emit random values on a timer",
	Long: `Emit --count random values in [0, 10), one per --interval.
With --parallel, run that many generators at once and report the total runtime instead.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var (
	genCount    int
	genInterval time.Duration
	genParallel int
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVar(&genCount, "count", delay.DefaultCount, "number of values per generator")
	generateCmd.Flags().DurationVar(&genInterval, "interval", delay.DefaultInterval, "wait before each value")
	generateCmd.Flags().IntVar(&genParallel, "parallel", 0, "measure the runtime of this many concurrent generators")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genCount < 0 {
		return fmt.Errorf("count must not be negative, got %d", genCount)
	}

	w := delay.New()

	if genParallel > 0 {
		elapsed, err := w.MeasureRuntime(cmd.Context(), genParallel, genCount, genInterval)
		if err != nil {
			return err
		}
		fmt.Printf("%d generators finished in %s\n", genParallel, elapsed.Round(time.Millisecond))
		return nil
	}

	for v := range w.Generate(cmd.Context(), genCount, genInterval) {
		fmt.Printf("%.4f\n", v)
	}
	return cmd.Context().Err()
}
