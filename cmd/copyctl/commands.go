package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"copyd/internal/client"
	"copyd/internal/config"
	"copyd/internal/protocol"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errOperationFailed marks a command whose operation the daemon rejected.
// The reason has already been printed.
var errOperationFailed = errors.New("operation failed")

type cli struct {
	out io.Writer

	configPath string
	network    string
	address    string
	timeout    time.Duration

	executor *client.Executor
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "copyctl",
		Short:         "Control jobs on a copy daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.connect()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "Path to config file (default: $"+config.EnvConfigPath+" or a standard location)")
	flags.StringVar(&c.network, "network", "", "Daemon network, tcp or unix (default from config)")
	flags.StringVarP(&c.address, "address", "a", "", "Daemon address (default from config)")
	flags.DurationVarP(&c.timeout, "timeout", "t", 0, "Round-trip timeout per operation (default from config)")

	root.AddCommand(
		c.createCmd(),
		c.jobCmd(protocol.KindProgress, "progress", "Show the progress of a job"),
		c.jobCmd(protocol.KindSuspend, "suspend", "Suspend a running job"),
		c.jobCmd(protocol.KindResume, "resume", "Resume a suspended job"),
		c.jobCmd(protocol.KindCancel, "cancel", "Cancel a running or suspended job"),
		c.listCmd(),
		c.watchCmd(),
	)
	return root
}

// connect builds the executor from the config file overlaid with flags.
func (c *cli) connect() error {
	cfg, err := config.Read(config.ResolvePath(c.configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	clientConfig := cfg.GetClient()

	network, address, timeout := clientConfig.Network, clientConfig.Address, clientConfig.Timeout
	if c.network != "" {
		network = c.network
	}
	if c.address != "" {
		address = c.address
	}
	if c.timeout > 0 {
		timeout = c.timeout
	}

	c.executor = client.NewExecutor(network, address,
		client.WithTimeout(timeout),
		client.WithMaxResponseSize(clientConfig.MaxResponseBytes()))
	return nil
}

func (c *cli) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create SRC DST [SRC DST]...",
		Short: "Start copying each SRC to its DST",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return fmt.Errorf("expected SRC DST pairs, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := make([]protocol.Operation, 0, len(args)/2)
			for i := 0; i < len(args); i += 2 {
				ops = append(ops, protocol.Create{Source: args[i], Destination: args[i+1]})
			}

			failed := 0
			for i, result := range c.executor.ExecuteBulk(cmd.Context(), ops) {
				op := ops[i].(protocol.Create)
				if err := result.Failure(); err != nil {
					failed++
					fmt.Fprintf(c.out, "failed\t%s -> %s: %s\n", op.Source, op.Destination, reason(err))
					continue
				}
				fmt.Fprintf(c.out, "%s\t%s -> %s\n", result.Response.(protocol.CreateResponse).JobID, op.Source, op.Destination)
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d copies not started", errOperationFailed, failed, len(ops))
			}
			return nil
		},
	}
}

func (c *cli) jobCmd(kind protocol.Kind, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " JOB_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := protocol.NewJobOperation(kind, args[0])
			if err != nil {
				return err
			}

			resp, err := c.executor.Execute(cmd.Context(), op)
			if err != nil {
				return err
			}
			if err := resp.Err(); err != nil {
				fmt.Fprintln(c.out, reason(err))
				return errOperationFailed
			}

			switch r := resp.(type) {
			case protocol.ProgressResponse:
				printJobs(c.out, []protocol.JobSummary{r.Job})
			case protocol.SuspendResponse:
				fmt.Fprintln(c.out, r.Message)
			case protocol.ResumeResponse:
				fmt.Fprintln(c.out, r.Message)
			case protocol.CancelResponse:
				fmt.Fprintln(c.out, r.Message)
			}
			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the jobs the daemon tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.executor.List(cmd.Context())
			if err != nil {
				return err
			}
			if err := resp.Err(); err != nil {
				fmt.Fprintln(c.out, reason(err))
				return errOperationFailed
			}
			printJobs(c.out, resp.Jobs)
			return nil
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the job list until no job is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("interval must be positive")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.watch(ctx, interval, isTerminal(c.out))
		},
	}
	cmd.Flags().DurationVarP(&interval, "interval", "i", time.Second, "Polling interval")
	return cmd
}

// watch redraws the job list every interval. It returns once the list is
// empty or holds no running job.
func (c *cli) watch(ctx context.Context, interval time.Duration, redraw bool) error {
	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		resp, err := c.executor.List(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := resp.Err(); err != nil {
			fmt.Fprintln(c.out, reason(err))
			return errOperationFailed
		}

		if redraw {
			fmt.Fprint(c.out, "\033[H\033[2J")
		}
		printFrame(c.out, resp.Jobs, time.Since(start))

		if !anyRunning(resp.Jobs) {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func anyRunning(jobs []protocol.JobSummary) bool {
	for _, job := range jobs {
		if job.Status == "running" {
			return true
		}
	}
	return false
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// reason strips the client's classification prefix from daemon-reported
// failures so the user sees the daemon's own words.
func reason(err error) string {
	var opErr *protocol.OperationError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return err.Error()
}
