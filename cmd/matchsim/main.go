// Command matchsim replays a script of NEW/CANCEL/DEPTH lines through a
// single in-process Engine and prints the outcome of each line.
//
// This is a developer harness for exercising the engine locally, not a
// trading UI or a wire protocol — the engine itself has no transport,
// persistence, or session layer. Script format, one request per line:
//
//	NEW <id> <BUY|SELL> <price> <qty>
//	CANCEL <id>
//	DEPTH <BUY|SELL> [n]
//
// DEPTH prints up to n resting price levels best-first (all levels if n
// is omitted or <=0); unlike NEW/CANCEL it is a read-only diagnostic, not
// a request the engine itself processes. Blank lines and lines starting
// with # are ignored.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lattice-markets/matchcore/internal/matching"
	"github.com/lattice-markets/matchcore/internal/orders"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "matchsim [script]",
		Short: "Replay a NEW/CANCEL/DEPTH request script through the matching engine",
		Long: `matchsim reads a plain-text script of NEW, CANCEL, and DEPTH lines, one
per line, feeds each NEW/CANCEL to a fresh in-process matching engine in
order and prints its Response, and prints the resting book depth for a
DEPTH line. With no script argument it reads from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.Nop()
			if verbose {
				logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
			}

			var in io.Reader
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("matchsim: %w", err)
				}
				defer f.Close()
				in = f
			} else {
				in = os.Stdin
			}

			engine := matching.New(matching.Config{Logger: &logger})
			return run(cmd.OutOrStdout(), in, engine)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log fills and rejects to stderr")
	return cmd
}

func run(out io.Writer, in io.Reader, engine *matching.Engine) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) > 0 && strings.EqualFold(fields[0], "DEPTH") {
			if err := printDepth(out, engine, fields); err != nil {
				fmt.Fprintf(out, "%d: ERROR %v\n", lineNo, err)
			}
			continue
		}

		req, err := parseLine(line)
		if err != nil {
			fmt.Fprintf(out, "%d: ERROR %v\n", lineNo, err)
			continue
		}

		resp := engine.Process(req)
		fmt.Fprintf(out, "%d: %s %s\n", lineNo, resp.Code, resp.Msg)
	}
	return scanner.Err()
}

// printDepth handles a "DEPTH <BUY|SELL> [n]" line: it reads the book
// directly rather than going through Engine.Process, since depth is a
// read-only diagnostic query, not a request the matching engine itself
// accepts or produces a Response for.
func printDepth(out io.Writer, engine *matching.Engine, fields []string) error {
	if len(fields) < 2 || len(fields) > 3 {
		return fmt.Errorf("DEPTH wants <BUY|SELL> [n]")
	}
	side, err := parseSide(fields[1])
	if err != nil {
		return err
	}
	n := 0
	if len(fields) == 3 {
		n, err = strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("bad depth count: %w", err)
		}
	}

	levels := engine.Depth(side, n)
	if len(levels) == 0 {
		fmt.Fprintf(out, "DEPTH %s: (empty)\n", side)
		return nil
	}
	fmt.Fprintf(out, "DEPTH %s:\n", side)
	for _, lvl := range levels {
		fmt.Fprintf(out, "  %.4f x %d\n", lvl.Price, lvl.Count())
	}
	return nil
}

func parseLine(line string) (matching.Request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty request")
	}

	switch strings.ToUpper(fields[0]) {
	case "NEW":
		if len(fields) != 5 {
			return nil, fmt.Errorf("NEW wants <id> <BUY|SELL> <price> <qty>, got %q", line)
		}
		id, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id: %w", err)
		}
		side, err := parseSide(fields[2])
		if err != nil {
			return nil, err
		}
		price, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("bad price: %w", err)
		}
		qty, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("bad qty: %w", err)
		}
		return matching.NewOrder{ID: orders.OrderID(id), Side: side, Price: price, Qty: qty}, nil

	case "CANCEL":
		if len(fields) != 2 {
			return nil, fmt.Errorf("CANCEL wants <id>, got %q", line)
		}
		id, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id: %w", err)
		}
		return matching.Cancel{ID: orders.OrderID(id)}, nil

	default:
		return nil, fmt.Errorf("unknown request kind %q", fields[0])
	}
}

func parseSide(s string) (orders.Side, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return orders.SideBuy, nil
	case "SELL":
		return orders.SideSell, nil
	default:
		return 0, fmt.Errorf("bad side %q (want BUY or SELL)", s)
	}
}
