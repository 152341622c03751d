package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/use-agent/sitecompare/compare"
	"github.com/use-agent/sitecompare/config"
	"github.com/use-agent/sitecompare/export"
	"github.com/use-agent/sitecompare/models"
)

func compareCMD() *cobra.Command {
	var format string
	var output string
	var robotsMode string
	cmd := &cobra.Command{
		Use:   "compare URL...",
		Short: "Compare up to three pages and print the comparison table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			cfg := config.Load()
			if robotsMode != "" {
				cfg.Fleet.RobotsMode = robotsMode
			}
			initLogger(cfg.Log)

			batch, err := newCoordinator(cmd.Context(), cfg, nil).Run(cmd.Context(), args)
			if err != nil {
				return err
			}
			for _, w := range batch.Warnings {
				slog.Warn(w)
			}
			for _, u := range batch.Results.Failed() {
				slog.Warn("page analysis failed", "url", u)
			}

			if err := writeOutput(cmd.OutOrStdout(), output, compare.Compare(batch.Results), f); err != nil {
				return err
			}
			if output != "" {
				slog.Info("comparison written", "file", output, "format", string(f))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&robotsMode, "robots", "", "robots.txt policy: strict or skip (overrides SITECOMPARE_ROBOTS_MODE)")
	return cmd
}

// writeOutput renders t in memory and only then writes it to path, or to
// stdout when path is empty. A failed export leaves an existing file as is.
func writeOutput(stdout io.Writer, path string, t *models.ComparisonTable, f export.Format) error {
	var buf bytes.Buffer
	if err := export.Write(&buf, t, f); err != nil {
		return err
	}
	if path == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
