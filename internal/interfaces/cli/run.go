package cli

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolGen-Scoring/internal/application/pipeline"
	"github.com/turtacn/MolGen-Scoring/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolGen-Scoring/internal/infrastructure/monitoring/metrics"
)

type runOptions struct {
	input       string
	batchSize   int
	ledgerPath  string
	metricsAddr string
}

// newRunCommand scores a stream of structures and writes the scaffold
// ledger at the end of the run.
func newRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score structures from a file or stdin",
		Long: "Reads one structure per line, scores them batch by batch through the\n" +
			"configured components and diversity filter, prints structure and final\n" +
			"score per line, and exports the scaffold ledger when the input ends.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := initContext(cmd, rootOpts)
			if err != nil {
				return err
			}
			return runScoring(cmd, cliCtx, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "-", "input file with one structure per line, - for stdin")
	f.IntVarP(&opts.batchSize, "batch-size", "b", 128, "structures scored per batch")
	f.StringVar(&opts.ledgerPath, "ledger", "", "scaffold ledger path (default: <output_dir>/<run>_scaffolds.csv)")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")
	return cmd
}

func runScoring(cmd *cobra.Command, cliCtx *CLIContext, opts *runOptions) error {
	if opts.batchSize < 1 {
		return fmt.Errorf("batch-size must be >= 1, got %d", opts.batchSize)
	}

	em := metrics.NewEngineMetrics()
	if opts.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", em.Handler())
		go func() {
			if err := http.ListenAndServe(opts.metricsAddr, mux); err != nil {
				cliCtx.Logger.Warn("metrics endpoint stopped", logging.Err(err))
			}
		}()
		cliCtx.Logger.Info("serving metrics", logging.String("addr", opts.metricsAddr))
	}

	svc, err := pipeline.NewService(cmd.Context(), cliCtx.Config, cliCtx.Logger, em)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(opts.input)
	if err != nil {
		return err
	}
	defer closeIn()

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(in)
	batch := make([]string, 0, opts.batchSize)
	total := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		scored, err := svc.ScoreBatch(cmd.Context(), batch)
		if err != nil {
			return err
		}
		for _, st := range scored {
			fmt.Fprintf(out, "%s\t%.4f\n", st.SMILES, st.Final)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		batch = append(batch, line)
		if len(batch) == opts.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}

	ledgerPath, err := writeLedger(svc, cliCtx, opts)
	if err != nil {
		return err
	}

	cliCtx.Logger.Info("run finished",
		logging.String("run", svc.RunLabel()),
		logging.Int("structures", total),
		logging.String("ledger", ledgerPath))
	return nil
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return f, f.Close, nil
}

func writeLedger(svc *pipeline.Service, cliCtx *CLIContext, opts *runOptions) (string, error) {
	path := opts.ledgerPath
	if path == "" {
		dir := cliCtx.Config.Run.OutputDir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
		path = filepath.Join(dir, svc.RunLabel()+"_scaffolds.csv")
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating ledger file: %w", err)
	}
	defer f.Close()

	if err := svc.ExportLedger(f); err != nil {
		return "", err
	}
	return path, nil
}
