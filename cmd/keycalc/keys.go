package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/keycalc"
)

func newKeysCmd() *cobra.Command {
	var (
		trace  bool
		maxLen int
	)
	cmd := &cobra.Command{
		Use:   "keys [flags] SEQ...",
		Short: "Press calculator keys",
		Long: "Press each key of each sequence on one calculator, then print the display.\n" +
			"Keys are 0-9 . + - * / × ÷, C to clear the last entry, A to reset, and = to evaluate.\n" +
			"Whitespace is ignored.",
		Example:      "  keycalc keys '12+34C5='",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pressKeys(cmd.OutOrStdout(), args, trace, maxLen)
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "print the display after every key that changes it")
	cmd.Flags().IntVar(&maxLen, "max-len", 0, "maximum expression length in bytes (0 for no limit)")
	return cmd
}

func pressKeys(w io.Writer, seqs []string, trace bool, maxLen int) error {
	opts := []keycalc.BuilderOption{keycalc.MaxLen(maxLen)}
	if trace {
		opts = append(opts, keycalc.Notify(func(expr, result string) {
			fmt.Fprintf(w, "%s | %s\n", expr, result)
		}))
	}
	b := keycalc.NewBuilder(opts...)
	for _, seq := range seqs {
		if err := b.PressAll(seq); err != nil {
			return fmt.Errorf("in %q: %w", seq, err)
		}
	}
	if trace {
		return nil
	}
	res := color.New(color.FgGreen, color.Bold)
	if b.Err() != nil {
		res = color.New(color.FgRed, color.Bold)
	}
	fmt.Fprintf(w, "%s = %s\n", b.Text(), res.Sprint(b.Result()))
	if err := b.Err(); err != nil {
		color.New(color.FgRed).Fprintln(w, err)
	}
	return nil
}
