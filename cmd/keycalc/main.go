// Command keycalc evaluates arithmetic expressions, replays calculator key
// sequences, and serves calculators over HTTP.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/keycalc"
)

// errFailed reports that at least one expression failed after all were
// printed.
var errFailed = errors.New("some expressions failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		inname   string
		nl, echo bool
	)
	cmd := &cobra.Command{
		Use:   "keycalc [flags] [expr...]",
		Short: "Evaluate arithmetic expressions",
		Long: "Evaluate expressions of decimal numbers and the operators + - * / with the usual precedence.\n" +
			"Each argument is one expression. With no arguments, input is read from stdin.",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			exprs, err := inputs(cmd, inname, nl, args)
			if err != nil {
				return err
			}
			return evalAll(cmd.OutOrStdout(), cmd.ErrOrStderr(), exprs, echo)
		},
	}
	cmd.Flags().StringVar(&inname, "in", "", "input file, or - for stdin (default stdin if no args given)")
	cmd.Flags().BoolVarP(&nl, "lines", "n", false, "evaluate separate input lines as separate expressions")
	cmd.Flags().BoolVar(&echo, "echo", false, "print each expression in postfix form before its result")
	cmd.AddCommand(newKeysCmd(), newServeCmd())
	return cmd
}

// inputs collects the expressions to evaluate from the input file and args.
func inputs(cmd *cobra.Command, inname string, nl bool, args []string) ([]string, error) {
	var exprs []string
	f, err := infile(cmd, inname, len(args) == 0)
	if err != nil {
		return nil, err
	}
	if f != nil {
		if nl {
			sc := bufio.NewScanner(f)
			for sc.Scan() {
				if strings.TrimSpace(sc.Text()) == "" {
					continue
				}
				exprs = append(exprs, sc.Text())
			}
			if err := sc.Err(); err != nil {
				return nil, fmt.Errorf("reading input: %w", err)
			}
		} else {
			b, err := io.ReadAll(f)
			if err != nil {
				return nil, fmt.Errorf("reading input: %w", err)
			}
			if strings.TrimSpace(string(b)) != "" {
				exprs = append(exprs, string(b))
			}
		}
	}
	return append(exprs, args...), nil
}

func infile(cmd *cobra.Command, inname string, std bool) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		b, err := os.ReadFile(inname)
		if err != nil {
			return nil, err
		}
		return strings.NewReader(string(b)), nil
	case inname == "-", std:
		return cmd.InOrStdin(), nil
	}
	return nil, nil
}

// evalAll evaluates each expression, printing results to w and errors to
// ew. It continues past failures and returns errFailed if there were any.
func evalAll(w, ew io.Writer, exprs []string, echo bool) error {
	red := color.New(color.FgRed)
	failed := false
	for _, src := range exprs {
		toks, err := keycalc.Tokenize(src)
		var post []keycalc.Token
		if err == nil {
			post, err = keycalc.ToPostfix(toks)
		}
		if echo && err == nil {
			fmt.Fprintf(w, "%s : ", keycalc.Postfix(post))
		}
		var v float64
		if err == nil {
			v, err = keycalc.EvalPostfix(post)
		}
		if err != nil {
			failed = true
			red.Fprintf(ew, "%s: %v\n", strings.TrimSpace(src), err)
			if echo {
				fmt.Fprintln(w, keycalc.ErrorText)
			}
			continue
		}
		fmt.Fprintln(w, keycalc.Format(v))
	}
	if failed {
		return errFailed
	}
	return nil
}
