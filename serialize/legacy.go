/*
NAME
  legacy.go

DESCRIPTION
  legacy.go implements the human-readable legacy transforms text format:
  a `VID.STAB 1` header, `#`-prefixed comments, and one `Frame <n> (List
  <len> [...])` line per frame (spec.md §6). This format is explicitly out
  of the core's scope for file I/O but its exact textual layout is
  specified at the byte level, so it is implemented here alongside the
  binary format it stands in for.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package serialize

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ausocean/gimbal/detect"
	"github.com/ausocean/gimbal/geom"
)

// LegacyHeader is the fixed first line of a legacy transforms text file.
const LegacyHeader = "VID.STAB 1"

// WriteLegacyHeader writes the fixed header line.
func WriteLegacyHeader(w io.Writer) error {
	_, err := fmt.Fprintln(w, LegacyHeader)
	return errors.Wrap(err, "serialize: write legacy header failed")
}

// WriteLegacyFrame writes one frame's line: `Frame <n> (List <len>
// [(LM vx vy fx fy fsize contrast match),...])`.
func WriteLegacyFrame(w io.Writer, frameIdx int, motions []detect.LocalMotion) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Frame %d (List %d [", frameIdx, len(motions))
	for i, m := range motions {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "(LM %f %f %f %f %f %f %d)",
			m.Vector.X, m.Vector.Y,
			float64(m.Position.X), float64(m.Position.Y), float64(m.Size),
			m.Contrast, m.Quality)
	}
	b.WriteString("])")
	_, err := fmt.Fprintln(w, b.String())
	return errors.Wrap(err, "serialize: write legacy frame failed")
}

// LegacyFrame is one parsed `Frame` line: its index and motion list.
type LegacyFrame struct {
	Index   int
	Motions []detect.LocalMotion
}

// ReadLegacy parses a full legacy transforms text stream, validating the
// header and skipping comment lines.
func ReadLegacy(r io.Reader) ([]LegacyFrame, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, "serialize: read legacy header failed")
		}
		return nil, errors.New("serialize: empty legacy stream")
	}
	if strings.TrimSpace(sc.Text()) != LegacyHeader {
		return nil, ErrBadMagic
	}

	var frames []LegacyFrame
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fr, err := parseLegacyLine(line)
		if err != nil {
			return nil, errors.Wrap(err, "serialize: parse legacy frame failed")
		}
		frames = append(frames, fr)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "serialize: read legacy stream failed")
	}
	return frames, nil
}

// parseLegacyLine parses one `Frame <n> (List <len> [...])` line.
func parseLegacyLine(line string) (LegacyFrame, error) {
	const framePrefix = "Frame "
	if !strings.HasPrefix(line, framePrefix) {
		return LegacyFrame{}, errors.New("serialize: line missing Frame prefix")
	}
	rest := line[len(framePrefix):]

	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return LegacyFrame{}, errors.New("serialize: malformed frame line")
	}
	idx, err := strconv.Atoi(rest[:sp])
	if err != nil {
		return LegacyFrame{}, errors.Wrap(err, "serialize: bad frame index")
	}
	rest = rest[sp+1:]

	const listPrefix = "(List "
	if !strings.HasPrefix(rest, listPrefix) {
		return LegacyFrame{}, errors.New("serialize: malformed list header")
	}
	rest = rest[len(listPrefix):]

	sp = strings.IndexByte(rest, ' ')
	if sp < 0 {
		return LegacyFrame{}, errors.New("serialize: malformed list length")
	}
	length, err := strconv.Atoi(rest[:sp])
	if err != nil {
		return LegacyFrame{}, errors.Wrap(err, "serialize: bad list length")
	}

	open := strings.IndexByte(rest, '[')
	shut := strings.LastIndexByte(rest, ']')
	if open < 0 || shut < 0 || shut < open {
		return LegacyFrame{}, errors.New("serialize: malformed motion list")
	}
	body := rest[open+1 : shut]

	motions := make([]detect.LocalMotion, 0, length)
	if strings.TrimSpace(body) != "" {
		for _, entry := range splitLMEntries(body) {
			m, err := parseLM(entry)
			if err != nil {
				return LegacyFrame{}, err
			}
			motions = append(motions, m)
		}
	}
	return LegacyFrame{Index: idx, Motions: motions}, nil
}

// splitLMEntries splits a comma-joined sequence of `(LM ...)` groups.
func splitLMEntries(body string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range body {
		switch r {
		case '(':
			if depth == 0 {
				start = i
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				out = append(out, body[start:i+1])
			}
		}
	}
	return out
}

// parseLM parses a single `(LM vx vy fx fy fsize contrast match)` entry.
func parseLM(entry string) (detect.LocalMotion, error) {
	entry = strings.TrimSpace(entry)
	entry = strings.TrimPrefix(entry, "(")
	entry = strings.TrimSuffix(entry, ")")
	fields := strings.Fields(entry)
	if len(fields) != 8 || fields[0] != "LM" {
		return detect.LocalMotion{}, errors.New("serialize: malformed LM entry")
	}
	nums := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(fields[1+i], 64)
		if err != nil {
			return detect.LocalMotion{}, errors.Wrap(err, "serialize: bad LM field")
		}
		nums[i] = v
	}
	quality, err := strconv.Atoi(fields[7])
	if err != nil {
		return detect.LocalMotion{}, errors.Wrap(err, "serialize: bad LM match quality")
	}
	return detect.LocalMotion{
		Vector:   geom.VecF{X: nums[0], Y: nums[1]},
		Position: geom.Vec{X: int(nums[2]), Y: int(nums[3])},
		Size:     int(nums[4]),
		Contrast: nums[5],
		Quality:  quality,
	}, nil
}
