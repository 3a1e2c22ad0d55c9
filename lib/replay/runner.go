package replay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/safeopen"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/ostree/lib/oracle"
	"github.com/benz9527/ostree/lib/tree"
	"github.com/benz9527/ostree/lib/xlog"
)

// Runner executes replay commands against an order statistics tree and
// cross-checks every result with a rank-array oracle.
type Runner struct {
	tree   tree.OSTree[int]
	oracle *oracle.RankArray
	out    io.Writer
	logger xlog.XLogger
}

type RunnerOpt func(*Runner)

func WithRunnerOutput(out io.Writer) RunnerOpt {
	return func(r *Runner) {
		r.out = out
	}
}

func WithRunnerLogger(logger xlog.XLogger) RunnerOpt {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithRunnerTree(t tree.OSTree[int]) RunnerOpt {
	return func(r *Runner) {
		r.tree = t
	}
}

func NewRunner(opts ...RunnerOpt) *Runner {
	r := &Runner{}
	for _, o := range opts {
		o(r)
	}
	if r.tree == nil {
		r.tree = tree.NewOSTree[int]()
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.logger == nil {
		r.logger = xlog.NewNopXLogger()
	}
	r.oracle = oracle.NewRankArray(MaxItem + 1)
	return r
}

func (r *Runner) Tree() tree.OSTree[int] {
	return r.tree
}

// Execute applies cmd to both the tree and the oracle. Absent results are 0.
func (r *Runner) Execute(cmd Command) (got, want int) {
	switch cmd.Op {
	case OpInsert:
		key, ok := r.tree.Insert(cmd.Arg)
		return lo.Ternary(ok, key, 0), r.oracle.Insert(cmd.Arg)
	case OpDelete:
		key, ok := r.tree.Remove(cmd.Arg)
		return lo.Ternary(ok, key, 0), r.oracle.Delete(cmd.Arg)
	case OpSelect:
		key, ok := r.tree.Select(int64(cmd.Arg))
		return lo.Ternary(ok, key, 0), r.oracle.Select(cmd.Arg)
	case OpRank:
		return int(r.tree.Rank(cmd.Arg)), r.oracle.Rank(cmd.Arg)
	default:
	}
	panic(fmt.Sprintf("[replay] unknown op %q", byte(cmd.Op)))
}

// Run reads one command per line and stops at the first failure.
func (r *Runner) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		text := scanner.Text()

		cmd, err := ParseCommand(text)
		if err != nil {
			return r.fail(line, text, err)
		}

		got, want := r.Execute(cmd)
		r.logger.Debug("command executed",
			zap.Int("line", line),
			zap.String("op", cmd.Op.String()),
			zap.Int("arg", cmd.Arg),
			zap.Int("got", got),
			zap.Int("want", want),
		)
		if _, err = fmt.Fprintf(r.out, "%s\nOS_RBTree output: %d\nCorrect   output: %d\n\n", text, got, want); err != nil {
			return err
		}

		if !r.tree.IsValid() {
			r.dump()
			return r.fail(line, text, errors.Join(ErrTreeInvalid, tree.Validate[int](r.tree)))
		}
		if got != want {
			r.dump()
			return r.fail(line, text, ErrResultMismatch)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	r.logger.Info("replay finished",
		zap.Int("lines", line),
		zap.Int64("size", r.tree.Len()),
	)
	return nil
}

// RunFile replays the commands stored at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	f, err := safeopen.OpenBeneath(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		if isNotExist(path, err) {
			err = ErrFileNotFound
		}
		r.logger.Error(err, "replay file open failed", zap.String("path", path))
		return &FileError{Path: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()
	r.logger.Info("replay file opened", zap.String("path", path))
	return r.Run(ctx, f)
}

func (r *Runner) dump() {
	_, _ = fmt.Fprintln(r.out, r.tree.String())
	_, _ = fmt.Fprintln(r.out, FormatLegend)
}

func (r *Runner) fail(line int, text string, err error) error {
	cmdErr := &CommandError{
		Line:    line,
		Command: text,
		Err:     err,
	}
	r.logger.Error(err, "replay command failed",
		zap.Int("line", line),
		zap.String("command", text),
	)
	return cmdErr
}

func isNotExist(path string, err error) bool {
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	_, statErr := os.Lstat(path)
	return errors.Is(statErr, fs.ErrNotExist)
}
