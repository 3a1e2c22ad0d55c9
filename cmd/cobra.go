package ostreecmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benz9527/ostree/lib/replay"
	"github.com/benz9527/ostree/lib/xlog"
)

const usageHint = "The command should follow this format: ostree replay <filename>."

type flags struct {
	logLevel   string
	logEncoder string
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	f := &flags{}
	rootCmd := &cobra.Command{
		Use:  "ostree",
		Long: "ostree replays order statistics tree commands and cross-checks every result.",
		Example: `  $ ostree replay commands.txt
  $ XLOG_LVL=error ostree replay commands.txt
  `,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error), falls back to XLOG_LVL")
	rootCmd.PersistentFlags().StringVar(&f.logEncoder, "log-encoder", "json", "log encoder (json, text)")
	rootCmd.AddCommand(newReplayCmd(f, stdout))
	return rootCmd
}

func newReplayCmd(f *flags, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <filename>",
		Short: "Replay a command file of I/D/S/R lines",
		Long: `Each line is one of "I x", "D x", "S x" or "R x" with x in 1-999.
Results are compared with a rank-array oracle and the tree is validated
after every command. The first failure stops the replay.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return replay.ErrInputFormat
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(f)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			r := replay.NewRunner(
				replay.WithRunnerOutput(stdout),
				replay.WithRunnerLogger(logger.Named("replay")),
			)
			return r.RunFile(cmd.Context(), args[0])
		},
	}
}

func newLogger(f *flags) (xlog.XLogger, error) {
	enc, err := xlog.ParseLogEncoder(f.logEncoder)
	if err != nil {
		return nil, err
	}
	opts := []xlog.XLoggerOption{
		xlog.WithXLoggerWriter(xlog.StdErr),
		xlog.WithXLoggerEncoder(enc),
	}
	if lvl := strings.TrimSpace(f.logLevel); lvl != "" {
		level := xlog.LogLevel(strings.ToUpper(lvl))
		switch level {
		case xlog.LogLevelDebug, xlog.LogLevelInfo, xlog.LogLevelWarn, xlog.LogLevelError:
		default:
			return nil, fmt.Errorf("unknown log level %q", f.logLevel)
		}
		opts = append(opts, xlog.WithXLoggerLevel(level))
	}
	return xlog.NewXLogger(opts...), nil
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout io.Writer) int {
	rootCmd := newRootCmd(stdout)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(stdout, replay.ErrorMessage(err))
		if errors.Is(err, replay.ErrInputFormat) {
			_, _ = fmt.Fprintln(stdout, usageHint)
		}
		return 1
	}
	return 0
}

func Main() {
	os.Exit(Execute(context.Background(), os.Args[1:], os.Stdout))
}
