package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var (
	errNoInput  = errors.New("no input: pass files or pipe HTML on stdin")
	errTooLarge = errors.New("input too large")
)

// processFunc turns one input document into one output document.
type processFunc func(name string, data []byte) (string, error)

// processInputs runs fn over every input named in args, concurrently,
// and returns the results in argument order. No args, or "-", means
// stdin.
func processInputs(ctx context.Context, cmd *cobra.Command, args []string, fn processFunc) ([]string, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	results := make([]string, len(args))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range args {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := readInput(cmd, name, environ.MaxInput)
			if err != nil {
				return err
			}
			out, err := fn(name, data)
			if err != nil {
				return fmt.Errorf("%s: %w", displayName(name), err)
			}
			log.Debug("Processed", "input", displayName(name),
				"in", humanize.Bytes(uint64(len(data))), "out", humanize.Bytes(uint64(len(out))))
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// readInput reads the named file, or stdin for "-", refusing anything
// larger than limit bytes.
func readInput(cmd *cobra.Command, name string, limit int64) ([]byte, error) {
	if name == "-" {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, errNoInput
		}
		return readLimited(in, "stdin", limit)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck
	if st, err := f.Stat(); err == nil && st.Size() > limit {
		return nil, fmt.Errorf("%s: %w: %s exceeds the %s limit", name, errTooLarge,
			humanize.IBytes(uint64(st.Size())), humanize.IBytes(uint64(limit)))
	}
	return readLimited(f, name, limit)
}

func readLimited(r io.Reader, name string, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%s: %w: more than the %s limit", name, errTooLarge, humanize.IBytes(uint64(limit)))
	}
	return b, nil
}

// writeResults writes each result on its own line.
func writeResults(w io.Writer, results []string) error {
	for _, r := range results {
		if _, err := io.WriteString(w, r); err != nil {
			return err
		}
		if !strings.HasSuffix(r, "\n") {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func displayName(name string) string {
	if name == "-" {
		return "stdin"
	}
	return name
}
