package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ngrash/go-zonedb/tzenc"
	"github.com/ngrash/go-zonedb/tzsnap"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print the tables and footprint of a snapshot",
		ArgsUsage: "<snapshot>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Print every rule and era",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("usage: tzcompact info <snapshot>")
			}
			db, err := readSnapshot(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			printInfo(os.Stdout, db, cmd.Bool("verbose"))
			return nil
		},
	}
}

func readSnapshot(path string) (*tzenc.Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	db, err := tzsnap.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}

func printInfo(w io.Writer, db *tzenc.Database, verbose bool) {
	fingerprint, err := tzsnap.Fingerprint(db)
	if err != nil {
		fmt.Fprintln(w, "fingerprint:", err)
	}

	fmt.Fprintln(w, "Database")
	fmt.Fprintln(w, "  version     =", db.Version)
	fmt.Fprintln(w, "  mode        =", db.Mode)
	fmt.Fprintf(w, "  epoch       = %d (sentinels %d, %d)\n", db.Config.EpochYear, db.Config.MinYear, db.Config.MaxYear)
	fmt.Fprintln(w, "  granularity =", db.Config.Granularity)
	fmt.Fprintf(w, "  fingerprint = %016x\n", fingerprint)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Footprint")
	fmt.Fprintf(w, "  policies (%d) = %v\n", len(db.Policies), db.PolicyFootprint())
	fmt.Fprintf(w, "  zones (%d)    = %v\n", len(db.Zones), db.ZoneFootprint())
	fmt.Fprintf(w, "  total        = %v\n", db.Footprint())
	if db.Mode == tzenc.Extended {
		fmt.Fprintf(w, "  strings (%d)  = %d bytes, %d without deduplication\n", len(db.Strings), db.StringsSize(), db.StringsOrigSize)
	}
	fmt.Fprintln(w)

	printNotes(w, "Removed policies", db.RemovedPolicies)
	printNotes(w, "Removed zones", db.RemovedZones)
	printNotes(w, "Notable policies", db.NotablePolicies)
	printNotes(w, "Notable zones", db.NotableZones)

	if !verbose {
		return
	}
	for _, p := range db.Policies {
		fmt.Fprintf(w, "Policy %s (%d rules, %v)\n", p.Name, len(p.Rules), p.Footprint)
		if len(p.Letters) > 0 {
			fmt.Fprintf(w, "  Letters (%d) = %q\n", len(p.Letters), p.Letters)
		}
		for _, r := range p.Rules {
			fmt.Fprintf(w, "  {%d, %d, %d, %d, %d, %d, '%c', %d, %v}\n",
				r.FromYearCode, r.ToYearCode, r.InMonth, r.OnDayOfWeek, r.OnDayOfMonth,
				r.AtTimeCode, r.AtTimeModifier, r.DeltaCode, r.Letter)
		}
		fmt.Fprintln(w)
	}
	for _, z := range db.Zones {
		fmt.Fprintf(w, "Zone %s (%d eras, %v)\n", z.Name, len(z.Eras), z.Footprint)
		for _, e := range z.Eras {
			policy := e.PolicyName
			if policy == "" {
				policy = "-"
			}
			fmt.Fprintf(w, "  {%d, %s, %d, %q, %d, %d, %d, %d, '%c'}\n",
				e.OffsetCode, policy, e.DeltaCode, e.Format,
				e.UntilYearCode, e.UntilMonth, e.UntilDay, e.UntilTimeCode, e.UntilTimeModifier)
		}
		fmt.Fprintln(w)
	}
	if db.Mode == tzenc.Extended {
		fmt.Fprintln(w, "Strings")
		for i, s := range db.Strings {
			fmt.Fprintf(w, "  %3d %q\n", i, s)
		}
		fmt.Fprintln(w)
	}
}

func printNotes(w io.Writer, title string, notes map[string]string) {
	if len(notes) == 0 {
		return
	}
	names := make([]string, 0, len(notes))
	for name := range notes {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Fprintf(w, "%s (%d)\n", title, len(notes))
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, strings.TrimSpace(notes[name]))
	}
	fmt.Fprintln(w)
}
