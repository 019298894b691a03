package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolGen-Scoring/internal/config"
	"github.com/turtacn/MolGen-Scoring/internal/domain/scoring"
)

type transformsOptions struct {
	kind    string
	low     float64
	high    float64
	k       float64
	coefDiv float64
	coefSI  float64
	coefSE  float64
	from    float64
	to      float64
	steps   int
}

// newTransformsCommand tabulates a transform curve so component windows
// can be tuned without running a full scoring pass.
func newTransformsCommand() *cobra.Command {
	opts := &transformsOptions{}

	cmd := &cobra.Command{
		Use:   "transforms",
		Short: "Print the raw-to-score curve of a transform",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCurve(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.kind, "kind", scoring.TransformSigmoid, "transform kind (sigmoid, reverse_sigmoid, double_sigmoid, step, right_step, no_transformation)")
	f.Float64Var(&opts.low, "low", 0, "lower threshold")
	f.Float64Var(&opts.high, "high", 1, "upper threshold")
	f.Float64Var(&opts.k, "k", 1, "sigmoid steepness")
	f.Float64Var(&opts.coefDiv, "coef-div", 100, "double_sigmoid divisor coefficient")
	f.Float64Var(&opts.coefSI, "coef-si", 150, "double_sigmoid falling-edge coefficient")
	f.Float64Var(&opts.coefSE, "coef-se", 150, "double_sigmoid rising-edge coefficient")
	f.Float64Var(&opts.from, "from", 0, "first raw value to tabulate")
	f.Float64Var(&opts.to, "to", 1, "last raw value to tabulate")
	f.IntVar(&opts.steps, "steps", 20, "number of rows")
	return cmd
}

func printCurve(cmd *cobra.Command, opts *transformsOptions) error {
	if opts.steps < 1 {
		return fmt.Errorf("steps must be >= 1, got %d", opts.steps)
	}
	if opts.to < opts.from {
		return fmt.Errorf("to must be >= from")
	}

	transform, err := scoring.NewTransform(config.TransformConfig{
		Enabled: true,
		Kind:    opts.kind,
		Low:     opts.low,
		High:    opts.high,
		K:       opts.k,
		CoefDiv: opts.coefDiv,
		CoefSI:  opts.coefSI,
		CoefSE:  opts.coefSE,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "raw\tscore")
	step := 0.0
	if opts.steps > 1 {
		step = (opts.to - opts.from) / float64(opts.steps-1)
	}
	for i := 0; i < opts.steps; i++ {
		raw := opts.from + float64(i)*step
		fmt.Fprintf(w, "%.4f\t%.4f\n", raw, transform(raw))
	}
	return w.Flush()
}
