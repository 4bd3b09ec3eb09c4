package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/urfave/cli/v3"

	"github.com/ngrash/go-zonedb/tzenc"
)

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Compare the tables of two snapshots",
		ArgsUsage: "<snapshot A> <snapshot B>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("usage: tzcompact diff <snapshot A> <snapshot B>")
			}
			a, err := readSnapshot(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			b, err := readSnapshot(cmd.Args().Get(1))
			if err != nil {
				return err
			}
			printDiff(os.Stdout, a, b)
			return nil
		},
	}
}

// printDiff prints the differences between two encoded databases and
// reports whether there are any.
func printDiff(w io.Writer, a, b *tzenc.Database) bool {
	diff := cmp.Diff(a, b, cmpopts.EquateEmpty())
	if diff == "" {
		fmt.Fprintln(w, "snapshots are identical")
		return false
	}
	fmt.Fprintln(w, "snapshots are different: -A +B")
	fmt.Fprintln(w, diff)
	fa, fb := a.Footprint(), b.Footprint()
	fmt.Fprintf(w, "footprint: %+d bytes (8-bit), %+d bytes (32-bit)\n", fb.Bits8-fa.Bits8, fb.Bits32-fa.Bits32)
	return true
}
