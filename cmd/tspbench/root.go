package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omarbz2001/MA-PCM/internal/chart"
	"github.com/omarbz2001/MA-PCM/internal/config"
	"github.com/omarbz2001/MA-PCM/internal/docker"
	"github.com/omarbz2001/MA-PCM/internal/k8s"
	"github.com/omarbz2001/MA-PCM/internal/notify"
	"github.com/omarbz2001/MA-PCM/internal/session"
	"github.com/omarbz2001/MA-PCM/internal/store"
	"github.com/omarbz2001/MA-PCM/internal/telemetry"
	"github.com/omarbz2001/MA-PCM/internal/trial"
)

var exit = os.Exit
var cfgFile string

var (
	saveSession bool
	tuiMode     bool
)

// errReported marks failures whose message was already printed in the
// command's own output, so Execute does not print it a second time.
var errReported = errors.New("reported")

// Test seams, swapped out in tests.
var (
	newInvokerFunc  = newInvoker
	newStoreFunc    = defaultStore
	newNotifierFunc = func() notify.Notifier { return notify.NewManager() }
)

// rootCmd runs a benchmark session. The harness surface is positional:
// any first argument that is not a known subcommand is a TSP file path.
var rootCmd = &cobra.Command{
	Use:   "tspbench <file.tsp> <num_cities> <N> <t1> <t2> ... <tN>",
	Short: "Benchmark a parallel TSP solver across thread counts",
	Long: `tspbench runs an external parallel TSP solver once per requested
thread count, extracts the reported execution time from its output, and
renders a time-vs-threads line chart.

The solver is invoked as <solver> <file.tsp> <num_cities> <threads> and
must print a line of the form "Time: <float> seconds".`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n=== CRITICAL ERROR: Command Execution Panic ===\n")
			fmt.Fprintf(os.Stderr, "Error: %v\n", r)
			exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")

	rootCmd.Flags().String("solver", "./parallel_tsp", "Path to the solver binary (in-image path for docker/k8s)")
	rootCmd.Flags().String("runner", "local", "Where trials run: local, docker or k8s")
	rootCmd.Flags().String("image", "", "Container image for the docker/k8s runners")
	rootCmd.Flags().String("plots-dir", "plots", "Directory the chart is written to")
	rootCmd.Flags().Int("cutoff", 0, "Optional solver search cutoff, forwarded when > 0")
	rootCmd.Flags().BoolVar(&saveSession, "save", false, "Persist the finished session to the history store")
	rootCmd.Flags().BoolVar(&tuiMode, "tui", false, "Show live progress instead of plain output")

	bindRootFlags()
}

// bindRootFlags wires the root flags into viper. Bindings do not
// survive viper.Reset, so tests that reset viper call this again.
func bindRootFlags() {
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("solver.path", rootCmd.Flags().Lookup("solver"))
	viper.BindPFlag("runner.type", rootCmd.Flags().Lookup("runner"))
	viper.BindPFlag("runner.image", rootCmd.Flags().Lookup("image"))
	viper.BindPFlag("plots.dir", rootCmd.Flags().Lookup("plots-dir"))
	viper.BindPFlag("trial.cutoff", rootCmd.Flags().Lookup("cutoff"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.Load(cfgFile)
	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log.file"), false)

	if viper.GetBool("metrics.enabled") {
		go func() {
			if err := telemetry.StartMetricsServer(viper.GetString("metrics.addr")); err != nil {
				slog.Warn("Metrics server stopped", "error", err)
			}
		}()
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tspbench <file.tsp> <num_cities> <N> <t1> <t2> ... <tN>")
	fmt.Fprintln(w, "Example:")
	fmt.Fprintln(w, "  tspbench dj38.tsp 38 3 2 4 8")
}

func runRoot(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) < 3 {
		printUsage(out)
		return errReported
	}

	tspFile := args[0]
	cities, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid number of cities %q", args[1])
	}
	n, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid thread value count %q", args[2])
	}

	if len(args)-3 != n {
		fmt.Fprintln(out, "ERROR: Number of thread values does not match N")
		return errReported
	}

	threadCounts := make([]int, 0, n)
	for _, raw := range args[3:] {
		threads, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid thread value %q", raw)
		}
		threadCounts = append(threadCounts, threads)
	}

	if err := config.ValidateConfig(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if timeout := viper.GetDuration("trial.timeout"); timeout > 0 {
		// Strictly opt-in. With no bound configured a stuck solver
		// hangs the session.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	runnerType := viper.GetString("runner.type")
	invoker, cleanup, err := newInvokerFunc(ctx, runnerType)
	if err != nil {
		return err
	}
	defer cleanup()

	runner := &session.Runner{
		Invoker:    invoker,
		Chart:      chart.NewPNGWriter(),
		Out:        out,
		PlotsDir:   viper.GetString("plots.dir"),
		SolverPath: viper.GetString("solver.path"),
		Label:      runnerType,
		Cutoff:     viper.GetInt("trial.cutoff"),
	}

	var s *session.Session
	if tuiMode {
		s, err = runSessionTUI(ctx, out, runner, tspFile, cities, threadCounts)
	} else {
		s, err = runner.Run(ctx, tspFile, cities, threadCounts)
	}

	manager := newNotifierFunc()
	if err != nil {
		manager.Notify(ctx, notify.EventSessionFailed, notify.SessionFailedMessage(tspFile, cities, err))
		telemetry.TrackSession("failed")

		var extractErr *trial.ExtractionError
		if errors.As(err, &extractErr) {
			// The runner already dumped the raw output.
			return errReported
		}
		return err
	}
	telemetry.TrackSession("ok")

	if saveSession {
		if err := persistSession(s); err != nil {
			return err
		}
		fmt.Fprintf(out, "Session saved with id %d\n", s.ID)
	}

	manager.Notify(ctx, notify.EventSessionComplete, notify.SessionCompleteMessage(s))
	return nil
}

// newInvoker picks the execution backend for the session's trials.
func newInvoker(ctx context.Context, runnerType string) (trial.Invoker, func(), error) {
	switch runnerType {
	case "docker":
		inv, err := docker.NewInvoker(ctx, viper.GetString("runner.image"), viper.GetString("solver.path"))
		if err != nil {
			return nil, nil, err
		}
		return inv, func() { inv.Close() }, nil
	case "k8s":
		inv, err := k8s.NewInvoker(viper.GetString("runner.image"), viper.GetString("solver.path"), viper.GetString("runner.namespace"))
		if err != nil {
			return nil, nil, err
		}
		return inv, func() {}, nil
	default:
		return trial.NewLocalInvoker(viper.GetString("solver.path")), func() {}, nil
	}
}

func defaultStore() (store.Store, error) {
	cfg := store.StoreConfig{Type: viper.GetString("store.type")}
	if cfg.Type == "postgres" || cfg.Type == "postgresql" {
		cfg.ConnectionString = viper.GetString("store.postgres_dsn")
	} else {
		cfg.ConnectionString = viper.GetString("store.path")
	}
	return store.NewStore(cfg)
}

func persistSession(s *session.Session) error {
	st, err := newStoreFunc()
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer st.Close()

	id, err := st.SaveSession(s)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	s.ID = id
	return nil
}
