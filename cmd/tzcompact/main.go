// Command tzcompact encodes a time zone database into compact zone tables and
// inspects the resulting snapshots.
//
//	tzcompact encode -c config.yaml
//	tzcompact info zonedb.snap
//	tzcompact diff 2024a.snap 2024b.snap
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "tzcompact",
		Usage: "Encode the IANA time zone database into compact fixed-width zone tables",
		Commands: []*cli.Command{
			encodeCommand(),
			infoCommand(),
			diffCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("tzcompact error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
