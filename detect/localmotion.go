/*
NAME
  localmotion.go

DESCRIPTION
  localmotion.go defines the LocalMotion measurement record exchanged with
  the legacy text format and the host application.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package detect implements the multi-timescale motion detector: pyramid
// orchestration across five reference layers, Kalman-style outlier
// rejection, and the legacy single-pass front-end, all built on the
// blockmatch, contrast and grid packages (components C8/C9 of the
// stabilization core).
package detect

import "github.com/ausocean/gimbal/geom"

// LocalMotion is a single measurement: source field (position+size),
// measured vector, contrast, and match quality (lower is better; Reject
// means the field was discarded).
type LocalMotion struct {
	Position geom.Vec
	Size     int
	Vector   geom.VecF
	Contrast float64
	Quality  int
}

// Reject is the sentinel match-quality value meaning "field discarded".
const Reject = -1
