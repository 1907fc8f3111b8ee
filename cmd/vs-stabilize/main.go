/*
DESCRIPTION
  vs-stabilize is pass two of the two-pass stabilizer: it reads the
  transforms file vs-detect wrote, fits and smooths a camera path, and
  warps the original raw planar video into a stabilized copy.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements vs-stabilize, the path-smoothing and warp
// front-end of the two-pass stabilizer.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/detect"
	"github.com/ausocean/gimbal/frame"
	"github.com/ausocean/gimbal/geom"
	"github.com/ausocean/gimbal/lens"
	"github.com/ausocean/gimbal/rawio"
	"github.com/ausocean/gimbal/serialize"
	"github.com/ausocean/gimbal/smooth"
	"github.com/ausocean/gimbal/transform"
	"github.com/ausocean/gimbal/warp"
)

const (
	logPath      = "vs-stabilize.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
)

func main() {
	in := flag.String("in", "", "path to the original raw planar input video (required)")
	transformsPath := flag.String("transforms", "", "path to the transforms file written by vs-detect (required)")
	out := flag.String("out", "", "path to write the stabilized raw planar video (required)")
	width := flag.Int("width", 0, "frame width in pixels (required)")
	height := flag.Int("height", 0, "frame height in pixels (required)")
	format := flag.String("format", "yuv420p", "pixel format: gray, yuv420p, yuv422p, yuv444p, yuv411p, yuv410p, yuv440p")
	smoothing := flag.Int("smoothing", config.DefaultSmoothing, "path smoother half-window length")
	maxShift := flag.Int("maxshift", -1, "clamp translation to +/- this many pixels, -1 is unlimited")
	maxAngle := flag.Float64("maxangle", -1, "clamp rotation to +/- this many radians, -1 is unlimited")
	crop := flag.Int("crop", int(config.CropKeep), "0=keep (fill from history), 1=black border")
	zoom := flag.Float64("zoom", config.DefaultZoom, "constant zoom percentage applied to every frame")
	optZoom := flag.Int("optzoom", int(config.OptZoomOff), "0=off, 1=static, 2=adaptive")
	interpol := flag.Int("interpol", int(config.InterpolBilinear), "0=nearest, 1=linear, 2=bilinear, 3=bicubic")
	camPath := flag.Int("campath", int(config.CamPathGaussian), "0=moving average, 1=gaussian, 2=optimal L1 (falls back to gaussian)")
	streaming := flag.Bool("streaming", false, "use the one-sided streaming smoother instead of the two-pass batch smoother")
	lensK0 := flag.Float64("lens-k0", 0, "lens model first-order radial distortion coefficient")
	lensK1 := flag.Float64("lens-k1", 0, "lens model second-order radial distortion coefficient")
	lensK2 := flag.Float64("lens-k2", 0, "lens model third-order radial distortion coefficient")
	watch := flag.Bool("watch", false, "re-run whenever -transforms is rewritten by a concurrent detector")
	logLevel := flag.Int("loglevel", int(logging.Info), "log verbosity, 0..4")
	flag.Parse()

	if *in == "" || *transformsPath == "" || *out == "" || *width <= 0 || *height <= 0 {
		fmt.Fprintln(os.Stderr, "vs-stabilize: -in, -transforms, -out, -width and -height are required")
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
	info := frame.Info{Width: *width, Height: *height, Format: fmt_}

	cfg := config.NewCorrectorConfig(l)
	cfg.Smoothing = *smoothing
	cfg.MaxShift = *maxShift
	cfg.MaxAngle = *maxAngle
	cfg.Crop = config.Crop(*crop)
	cfg.Zoom = *zoom
	cfg.OptZoom = config.OptZoom(*optZoom)
	cfg.Interpol = config.Interpol(*interpol)
	cfg.CamPath = config.CamPath(*camPath)

	lensModel := lens.Model{K0: *lensK0, K1: *lensK1, K2: *lensK2, Center: geom.VecF{X: float64(*width) / 2, Y: float64(*height) / 2}}

	run := func() error {
		return stabilize(l, cfg, info, lensModel, *in, *transformsPath, *out, *streaming)
	}

	if err := run(); err != nil {
		l.Fatal("vs-stabilize failed", "error", err)
	}

	if !*watch {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		l.Fatal("could not create transforms-file watcher", "error", err)
	}
	defer watcher.Close()
	if err := watcher.Add(*transformsPath); err != nil {
		l.Fatal("could not watch transforms file", "error", err)
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			l.Info("transforms file changed, re-running", "event", ev.String())
			if err := run(); err != nil {
				l.Error("re-run failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.Error("watcher error", "error", err)
		}
	}
}

// stabilize runs one full pass two: fit a per-frame transform from the
// transforms file, smooth the resulting path (batch or streaming, per
// streaming), and warp inPath into outPath.
func stabilize(l config.Logger, cfg config.Config, info frame.Info, lensModel lens.Model, inPath, transformsPath, outPath string, streaming bool) error {
	center := geom.VecF{X: float64(info.Width) / 2, Y: float64(info.Height) / 2}

	relative, err := readRelativeTransforms(transformsPath, center)
	if err != nil {
		return err
	}
	l.Info("read relative transforms", "frames", len(relative))

	var path []transform.Record
	if streaming {
		s := smooth.NewSliding(cfg, info.Width, info.Height)
		path = make([]transform.Record, len(relative))
		for i, r := range relative {
			path[i] = s.Next(r)
		}
	} else {
		path = smooth.Batch(cfg, info.Width, info.Height, relative)
	}

	inFile, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("vs-stabilize: could not open input video: %w", err)
	}
	defer inFile.Close()

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("vs-stabilize: could not create output video: %w", err)
	}
	defer outFile.Close()
	bw := bufio.NewWriter(outFile)
	defer bw.Flush()

	reader := rawio.NewReader(bufio.NewReader(inFile), info, false, l)

	src, err := frame.Allocate(info)
	if err != nil {
		return fmt.Errorf("vs-stabilize: could not allocate source frame: %w", err)
	}
	defer src.Free()

	var history *frame.Frame
	var frames int
	for t := 0; t < len(path); t++ {
		if err := reader.NextInto(src); err != nil {
			if err == io.EOF {
				l.Warning("video shorter than transforms file", "video frames", t, "transform frames", len(path))
				break
			}
			return fmt.Errorf("vs-stabilize: could not read source frame %d: %w", t, err)
		}

		dst, err := frame.Allocate(info)
		if err != nil {
			return fmt.Errorf("vs-stabilize: could not allocate destination frame: %w", err)
		}

		if err := warp.Warp(dst, src, path[t], lensModel, cfg, history); err != nil {
			return fmt.Errorf("vs-stabilize: warp failed at frame %d: %w", t, err)
		}
		if err := rawio.WriteFrame(bw, dst); err != nil {
			return fmt.Errorf("vs-stabilize: could not write frame %d: %w", t, err)
		}

		if history != nil {
			history.Free()
		}
		history = dst
		frames++
	}
	if history != nil {
		history.Free()
	}

	l.Info("vs-stabilize finished", "frames", frames)
	return nil
}

// readRelativeTransforms reads every frame block from the transforms file
// at path and fits a single relative camera transform per frame via
// detect.FitTransform, bridging the detector's per-cell output to the
// smoother's per-frame input.
func readRelativeTransforms(path string, center geom.VecF) ([]transform.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vs-stabilize: could not open transforms file: %w", err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	if _, _, err := serialize.ReadHeader(r); err != nil {
		return nil, fmt.Errorf("vs-stabilize: could not read transforms header: %w", err)
	}

	var out []transform.Record
	for {
		cells, err := serialize.ReadFrame(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("vs-stabilize: could not read transform frame %d: %w", len(out), err)
		}
		out = append(out, detect.FitTransformFromCells(cells, center))
	}
	return out, nil
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
