//go:build debug && withcv
// +build debug,withcv

/*
NAME
  window_debug.go

DESCRIPTION
  window_debug.go displays the show-overlay in a live gocv window,
  following the teacher's debug-build display pattern.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import "gocv.io/x/gocv"

// fieldWindow displays the annotated frame in a live window, only built
// when both the debug and withcv tags are set.
type fieldWindow struct {
	win *gocv.Window
}

func newFieldWindow(name string) fieldWindow {
	return fieldWindow{win: gocv.NewWindow(name)}
}

func (w fieldWindow) show(img gocv.Mat) {
	w.win.IMShow(img)
	w.win.WaitKey(1)
}

func (w fieldWindow) close() error {
	return w.win.Close()
}
