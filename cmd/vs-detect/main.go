/*
DESCRIPTION
  vs-detect is pass one of the two-pass stabilizer: it runs the motion
  detector over a raw planar video file and writes a binary transforms
  file the second pass (vs-stabilize) reads.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements vs-detect, the detector front-end of the
// two-pass stabilizer.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/detect"
	"github.com/ausocean/gimbal/filter"
	"github.com/ausocean/gimbal/frame"
	"github.com/ausocean/gimbal/rawio"
	"github.com/ausocean/gimbal/serialize"
)

// Logging configuration, matching cmd/rv's file-rotation settings.
const (
	logPath      = "vs-detect.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
)

func main() {
	in := flag.String("in", "", "path to raw planar input video (required)")
	out := flag.String("out", "", "path to write the binary transforms file (required)")
	width := flag.Int("width", 0, "frame width in pixels (required)")
	height := flag.Int("height", 0, "frame height in pixels (required)")
	format := flag.String("format", "yuv420p", "pixel format: gray, yuv420p, yuv422p, yuv444p, yuv411p, yuv410p, yuv440p")
	shakiness := flag.Int("shakiness", config.DefaultShakiness, "1..10, how shaky the input is")
	accuracy := flag.Int("accuracy", config.DefaultAccuracy, "1..15, fields-per-frame setting (range-checked only; the detector does not apply it)")
	stepSize := flag.Int("stepsize", config.DefaultStepSize, "1..32, coarse search step")
	minContrast := flag.Float64("mincontrast", config.DefaultMinContrast, "0.0..1.0, contrast threshold (range-checked only; the detector uses a fixed threshold)")
	tripod := flag.Int("tripod", 0, "fixed reference frame index, 0 for none (range-checked only; the detector does not apply it)")
	show := flag.Int("show", 0, "0=off, 1=fields, 2=fields+vectors")
	showOut := flag.String("showout", "", "path to write motion-overlay JPEGs, one per frame (requires show > 0)")
	gate := flag.Float64("gate", 0, "mean luma diff threshold below which a frame is skipped entirely, 0 disables")
	logLevel := flag.Int("loglevel", int(logging.Info), "log verbosity, 0..4")
	flag.Parse()

	if *in == "" || *out == "" || *width <= 0 || *height <= 0 {
		fmt.Fprintln(os.Stderr, "vs-detect: -in, -out, -width and -height are required")
		flag.Usage()
		os.Exit(2)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(int8(*logLevel), io.MultiWriter(fileLog, os.Stderr), true)

	fmt_, err := parseFormat(*format)
	if err != nil {
		l.Fatal("bad -format", "error", err)
	}

	cfg := config.NewDetectorConfig(l)
	cfg.Shakiness = *shakiness
	cfg.Accuracy = *accuracy
	cfg.StepSize = *stepSize
	cfg.MinContrast = *minContrast
	cfg.Tripod = *tripod
	cfg.Show = config.Show(*show)

	info := frame.Info{Width: *width, Height: *height, Format: fmt_}

	inFile, err := os.Open(*in)
	if err != nil {
		l.Fatal("could not open input", "error", err)
	}
	defer inFile.Close()

	outFile, err := os.Create(*out)
	if err != nil {
		l.Fatal("could not create output", "error", err)
	}
	defer outFile.Close()
	bw := bufio.NewWriter(outFile)
	defer bw.Flush()

	if err := serialize.WriteHeader(bw, *width, *height); err != nil {
		l.Fatal("could not write transforms header", "error", err)
	}

	det, err := detect.New(cfg, info)
	if err != nil {
		l.Fatal("could not build detector", "error", err)
	}

	var overlay *filter.Overlay
	var overlayOut *os.File
	if cfg.Show != config.ShowOff && *showOut != "" {
		overlay = filter.NewOverlay()
		defer overlay.Close()
		overlayOut, err = os.Create(*showOut)
		if err != nil {
			l.Fatal("could not create show output", "error", err)
		}
		defer overlayOut.Close()
	}

	var quickGate *filter.QuickGate
	if *gate > 0 {
		quickGate = filter.NewQuickGate(*gate)
	}

	reader := rawio.NewReader(bufio.NewReader(inFile), info, false, l)

	var frames, skipped int
	for t := 0; ; t++ {
		f, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.Fatal("could not read frame", "frame", t, "error", err)
		}

		if quickGate != nil && !quickGate.Check(f) {
			skipped++
			f.Free()
			continue
		}

		motions, err := det.Detect(f)
		if err != nil {
			l.Fatal("detect failed", "frame", t, "error", err)
		}

		cells := serialize.FromGrid(det.Grid(), t)
		if err := serialize.WriteFrame(bw, cells); err != nil {
			l.Fatal("could not write frame record", "frame", t, "error", err)
		}

		if overlay != nil {
			if err := overlay.Draw(f, motions, cfg, overlayOut); err != nil {
				l.Warning("overlay draw failed", "frame", t, "error", err)
			}
		}

		f.Free()
		frames++
	}

	l.Info("vs-detect finished", "frames", frames, "skipped", skipped)
}

func parseFormat(s string) (frame.Format, error) {
	switch s {
	case "gray":
		return frame.FormatGray, nil
	case "yuv410p":
		return frame.FormatYUV410P, nil
	case "yuv411p":
		return frame.FormatYUV411P, nil
	case "yuv420p":
		return frame.FormatYUV420P, nil
	case "yuv422p":
		return frame.FormatYUV422P, nil
	case "yuv440p":
		return frame.FormatYUV440P, nil
	case "yuv444p":
		return frame.FormatYUV444P, nil
	case "yuva420p":
		return frame.FormatYUVA420P, nil
	case "rgb24":
		return frame.FormatRGB24, nil
	case "bgr24":
		return frame.FormatBGR24, nil
	case "rgba32":
		return frame.FormatRGBA32, nil
	default:
		return 0, fmt.Errorf("unknown format %q", s)
	}
}
