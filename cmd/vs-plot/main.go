/*
DESCRIPTION
  vs-plot renders the raw camera path fitted from a vs-detect transforms
  file against the path the corrector's smoother would produce, so a
  shakiness/smoothing setting can be tuned by eye before running
  vs-stabilize over the full video.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements vs-plot, a camera-path visualizer for the
// two-pass stabilizer.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/detect"
	"github.com/ausocean/gimbal/geom"
	"github.com/ausocean/gimbal/serialize"
	"github.com/ausocean/gimbal/smooth"
	"github.com/ausocean/gimbal/transform"
)

var (
	rawColor      = color.RGBA{R: 200, A: 255}
	smoothedColor = color.RGBA{B: 200, A: 255}
)

func main() {
	transformsPath := flag.String("transforms", "", "path to the transforms file written by vs-detect (required)")
	outDir := flag.String("outdir", ".", "directory to write the PNG plots into")
	width := flag.Int("width", 0, "frame width in pixels (required)")
	height := flag.Int("height", 0, "frame height in pixels (required)")
	smoothing := flag.Int("smoothing", config.DefaultSmoothing, "path smoother half-window length")
	camPath := flag.Int("campath", int(config.CamPathGaussian), "0=moving average, 1=gaussian, 2=optimal L1 (falls back to gaussian)")
	flag.Parse()

	if *transformsPath == "" || *width <= 0 || *height <= 0 {
		fmt.Fprintln(os.Stderr, "vs-plot: -transforms, -width and -height are required")
		flag.Usage()
		os.Exit(2)
	}

	center := geom.VecF{X: float64(*width) / 2, Y: float64(*height) / 2}
	relative, err := readRelativeTransforms(*transformsPath, center)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vs-plot:", err)
		os.Exit(1)
	}

	raw := make([]transform.Record, len(relative))
	if len(relative) > 0 {
		raw[0] = relative[0]
		for i := 1; i < len(relative); i++ {
			raw[i] = relative[i].Add(raw[i-1])
		}
	}

	cfg := config.Config{Smoothing: *smoothing, CamPath: config.CamPath(*camPath), MaxShift: -1, MaxAngle: -1}
	smoothed := smooth.Batch(cfg, *width, *height, relative)

	channels := []struct {
		name string
		pick func(transform.Record) float64
	}{
		{"x", func(r transform.Record) float64 { return r.X }},
		{"y", func(r transform.Record) float64 { return r.Y }},
		{"alpha", func(r transform.Record) float64 { return r.Alpha }},
		{"zoom", func(r transform.Record) float64 { return r.Zoom }},
	}

	for _, ch := range channels {
		if err := plotChannel(*outDir, ch.name, raw, smoothed, ch.pick); err != nil {
			fmt.Fprintln(os.Stderr, "vs-plot:", err)
			os.Exit(1)
		}
	}
}

// plotChannel renders one transform component's raw and smoothed
// trajectories as two overlaid lines and saves the result as a PNG named
// after the channel.
func plotChannel(outDir, name string, raw, smoothed []transform.Record, pick func(transform.Record) float64) error {
	p := plot.New()
	p.Title.Text = "camera path: " + name
	p.X.Label.Text = "frame"
	p.Y.Label.Text = name

	rawPts := make(plotter.XYs, len(raw))
	for i, r := range raw {
		rawPts[i] = plotter.XY{X: float64(i), Y: pick(r)}
	}
	rawLine, err := plotter.NewLine(rawPts)
	if err != nil {
		return fmt.Errorf("could not build raw line for %s: %w", name, err)
	}
	rawLine.Color = rawColor
	rawLine.Width = vg.Points(1)
	p.Add(rawLine)
	p.Legend.Add("raw", rawLine)

	smoothedPts := make(plotter.XYs, len(smoothed))
	for i, r := range smoothed {
		smoothedPts[i] = plotter.XY{X: float64(i), Y: pick(r)}
	}
	smoothedLine, err := plotter.NewLine(smoothedPts)
	if err != nil {
		return fmt.Errorf("could not build smoothed line for %s: %w", name, err)
	}
	smoothedLine.Color = smoothedColor
	smoothedLine.Width = vg.Points(1)
	p.Add(smoothedLine)
	p.Legend.Add("smoothed", smoothedLine)

	out := outDir + "/" + name + ".png"
	if err := p.Save(12*vg.Inch, 4*vg.Inch, out); err != nil {
		return fmt.Errorf("could not save %s: %w", out, err)
	}
	return nil
}

// readRelativeTransforms reads every frame block from the transforms file
// at path and fits a single relative camera transform per frame, the same
// bridge vs-stabilize uses.
func readRelativeTransforms(path string, center geom.VecF) ([]transform.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open transforms file: %w", err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	if _, _, err := serialize.ReadHeader(r); err != nil {
		return nil, fmt.Errorf("could not read transforms header: %w", err)
	}

	var out []transform.Record
	for {
		cells, err := serialize.ReadFrame(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read transform frame %d: %w", len(out), err)
		}
		out = append(out, detect.FitTransformFromCells(cells, center))
	}
	return out, nil
}
