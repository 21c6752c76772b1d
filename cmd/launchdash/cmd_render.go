package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"launchdash"
	"launchdash/internal/logging"
	"launchdash/internal/render"
)

var renderFlags struct {
	chart  string
	site   string
	low    float64
	high   float64
	format string
	width  int
	height int
	output string
}

func (c *cli) newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the pie or scatter chart for a selection to an image file",
		RunE:  c.runRender,
	}
	f := cmd.Flags()
	f.StringVar(&renderFlags.chart, "chart", launchdash.FigurePie, "Chart to render: pie or scatter")
	f.StringVar(&renderFlags.site, "site", launchdash.AllSites, "Launch site, or ALL")
	f.Float64Var(&renderFlags.low, "low", 0, "Lower payload bound in kg (default: slider minimum, 0)")
	f.Float64Var(&renderFlags.high, "high", 0, "Upper payload bound in kg (default: slider maximum, the rounded-up largest payload)")
	f.StringVar(&renderFlags.format, "format", "", "Image format: svg or png (default: from the output extension)")
	f.IntVar(&renderFlags.width, "width", render.DefaultWidth, "Image width in pixels")
	f.IntVar(&renderFlags.height, "height", render.DefaultHeight, "Image height in pixels")
	f.StringVarP(&renderFlags.output, "output", "o", "", "Output file (required)")

	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (c *cli) runRender(cmd *cobra.Command, _ []string) error {
	formatName := renderFlags.format
	if formatName == "" {
		formatName = strings.TrimPrefix(filepath.Ext(renderFlags.output), ".")
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log, cmd.ErrOrStderr())
	table, err := loadTable(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	sel := launchdash.DeriveOptions(table).Default
	sel.Site = renderFlags.site
	if cmd.Flags().Changed("low") {
		sel.Payload[0] = renderFlags.low
	}
	if cmd.Flags().Changed("high") {
		sel.Payload[1] = renderFlags.high
	}
	if err := checkPayload(sel.Payload); err != nil {
		return err
	}

	var fig launchdash.Figure
	switch renderFlags.chart {
	case launchdash.FigurePie:
		fig = launchdash.PieChart(table, sel.Site)
	case launchdash.FigureScatter:
		fig = launchdash.ScatterChart(table, sel.Site, sel.Payload[0], sel.Payload[1])
	default:
		return fmt.Errorf("%w: %q", errUnknownChart, renderFlags.chart)
	}

	var buf bytes.Buffer
	if err := render.Figure(&buf, fig, format, render.Size{Width: renderFlags.width, Height: renderFlags.height}); err != nil {
		return fmt.Errorf("render %s: %w", renderFlags.chart, err)
	}
	if err := os.WriteFile(renderFlags.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", renderFlags.output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s chart to %s\n", renderFlags.chart, renderFlags.output)
	return nil
}
