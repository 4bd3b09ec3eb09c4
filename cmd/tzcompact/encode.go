package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ngrash/go-zonedb/internal/config"
	"github.com/ngrash/go-zonedb/tzenc"
	"github.com/ngrash/go-zonedb/tzmodel"
	"github.com/ngrash/go-zonedb/tzsnap"
)

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "Encode a model database and write a snapshot",
		ArgsUsage: "[model file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("TZCOMPACT_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path of the snapshot",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Table layout, basic or extended",
			},
			&cli.BoolFlag{
				Name:  "compress",
				Usage: "Compress the snapshot with zstd",
			},
		},
		Action: runEncode,
	}
}

func runEncode(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewDefaultConfig()
	if path := cmd.String("config"); path != "" {
		if err := config.Load(path, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if cmd.Args().Len() > 0 {
		cfg.Input.Path = cmd.Args().Get(0)
	}
	if cmd.IsSet("output") {
		cfg.Output.Path = cmd.String("output")
	}
	if cmd.IsSet("mode") {
		if err := cfg.Encoding.Mode.UnmarshalText([]byte(cmd.String("mode"))); err != nil {
			return err
		}
	}
	if cmd.IsSet("compress") {
		cfg.Output.Compress = cmd.Bool("compress")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.Level}))
	return encodeFile(cfg, logger)
}

// encodeFile encodes the model database named by cfg and writes its snapshot.
func encodeFile(cfg *config.Config, logger *slog.Logger) error {
	in, err := os.Open(cfg.Input.Path)
	if err != nil {
		return err
	}
	defer in.Close()

	model, err := tzmodel.Decode(in)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Input.Path, err)
	}

	opts := append(cfg.Encoding.Options(), tzenc.WithLogger(logger))
	enc, err := tzenc.New(cfg.Encoding.Mode, cfg.Encoding.Codec(), opts...)
	if err != nil {
		return err
	}
	db, err := enc.Encode(model)
	if err != nil {
		return err
	}

	out, err := os.Create(cfg.Output.Path)
	if err != nil {
		return err
	}
	if err := tzsnap.Write(out, db, cfg.Output.Compress); err != nil {
		out.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	fingerprint, err := tzsnap.Fingerprint(db)
	if err != nil {
		return err
	}
	logger.Info("wrote snapshot",
		slog.String("path", cfg.Output.Path),
		slog.Bool("compressed", cfg.Output.Compress),
		slog.String("fingerprint", fmt.Sprintf("%016x", fingerprint)))
	return nil
}
