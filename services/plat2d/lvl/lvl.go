// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lvl holds the tiled level geometry of the platformer domain.
//
// A level is a grid of tiles, each either solid or empty, with exactly one
// start tile and one goal tile. Coordinates outside the grid are solid.
// Levels are read from YAML documents:
//
//	name: flat
//	tile_width: 32
//	tile_height: 32
//	tiles: |
//	  S...G
//	  #####
//
// '#' marks a solid tile, '.' or ' ' an empty one, 'S' the start and 'G'
// the goal. Short rows are padded with empty tiles.
package lvl

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/heursearch/services/plat2d/geom"
)

// Default tile dimensions in level units.
const (
	DefaultTileWidth  = 32
	DefaultTileHeight = 32
)

// Sentinel errors for level parsing.
var (
	ErrNoStart    = errors.New("level has no start tile")
	ErrNoGoal     = errors.New("level has no goal tile")
	ErrDuplicate  = errors.New("level has more than one start or goal tile")
	ErrBadTile    = errors.New("unknown tile symbol")
	ErrInvalidDoc = errors.New("invalid level document")
)

// ParseError locates a level parsing failure.
type ParseError struct {
	// Line is the 1-based tile row, or 0 for document-level errors.
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return "lvl: " + e.Err.Error()
	}
	return fmt.Sprintf("lvl: row %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Blkinfo is the column and row of one tile.
type Blkinfo struct {
	X int
	Y int
}

// Lvl is an immutable tiled level.
//
// Thread Safety: Safe for concurrent reads once constructed.
type Lvl struct {
	Name  string
	TileW float64
	TileH float64

	w, h  int
	solid []bool
	start Blkinfo
	goal  Blkinfo
}

// document is the YAML form of a level.
type document struct {
	Name       string `yaml:"name"`
	TileWidth  int    `yaml:"tile_width" validate:"omitempty,gt=0,lte=4096"`
	TileHeight int    `yaml:"tile_height" validate:"omitempty,gt=0,lte=4096"`
	Tiles      string `yaml:"tiles" validate:"required,tilechars"`
}

var lvlValidate *validator.Validate

func init() {
	lvlValidate = validator.New()
	_ = lvlValidate.RegisterValidation("tilechars", validateTileChars)
}

func validateTileChars(fl validator.FieldLevel) bool {
	for _, c := range fl.Field().String() {
		if !strings.ContainsRune("#. SG\n\r", c) {
			return false
		}
	}
	return true
}

// Read parses a YAML level document.
//
// Inputs:
//   - r: The document source.
//
// Outputs:
//   - *Lvl: The level.
//   - error: A *ParseError on malformed input.
func Read(r io.Reader) (*Lvl, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("%w: %v", ErrInvalidDoc, err)}
	}
	if err := lvlValidate.Struct(&doc); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("%w: %v", ErrInvalidDoc, err)}
	}
	tw, th := doc.TileWidth, doc.TileHeight
	if tw == 0 {
		tw = DefaultTileWidth
	}
	if th == 0 {
		th = DefaultTileHeight
	}
	rows := strings.Split(strings.TrimRight(doc.Tiles, "\n"), "\n")
	l, err := New(rows, float64(tw), float64(th))
	if err != nil {
		return nil, err
	}
	l.Name = doc.Name
	return l, nil
}

// New builds a level from tile rows.
func New(rows []string, tileW, tileH float64) (*Lvl, error) {
	l := &Lvl{TileW: tileW, TileH: tileH, h: len(rows)}
	for _, r := range rows {
		if n := len(strings.TrimRight(r, "\r")); n > l.w {
			l.w = n
		}
	}
	l.solid = make([]bool, l.w*l.h)

	var haveStart, haveGoal bool
	for y, r := range rows {
		r = strings.TrimRight(r, "\r")
		for x := 0; x < len(r); x++ {
			switch r[x] {
			case '#':
				l.solid[y*l.w+x] = true
			case '.', ' ':
			case 'S':
				if haveStart {
					return nil, &ParseError{Line: y + 1, Err: ErrDuplicate}
				}
				haveStart = true
				l.start = Blkinfo{x, y}
			case 'G':
				if haveGoal {
					return nil, &ParseError{Line: y + 1, Err: ErrDuplicate}
				}
				haveGoal = true
				l.goal = Blkinfo{x, y}
			default:
				return nil, &ParseError{Line: y + 1, Err: fmt.Errorf("%w %q", ErrBadTile, r[x])}
			}
		}
	}
	if !haveStart {
		return nil, &ParseError{Err: ErrNoStart}
	}
	if !haveGoal {
		return nil, &ParseError{Err: ErrNoGoal}
	}
	return l, nil
}

// Width returns the number of tile columns.
func (l *Lvl) Width() int { return l.w }

// Height returns the number of tile rows.
func (l *Lvl) Height() int { return l.h }

// Start returns the start tile.
func (l *Lvl) Start() Blkinfo { return l.start }

// Goal returns the goal tile.
func (l *Lvl) Goal() Blkinfo { return l.goal }

// Blocked reports whether tile (x, y) is solid. Tiles outside the grid
// are solid.
func (l *Lvl) Blocked(x, y int) bool {
	if x < 0 || y < 0 || x >= l.w || y >= l.h {
		return true
	}
	return l.solid[y*l.w+x]
}

// TileBox returns the area covered by tile (x, y).
func (l *Lvl) TileBox(x, y int) geom.Bbox {
	return geom.NewBbox(float64(x)*l.TileW, float64(y)*l.TileH, l.TileW, l.TileH)
}

// MajorBlock returns the tile holding the centre of b. For boxes no larger
// than a tile this is the tile covering most of b.
func (l *Lvl) MajorBlock(b geom.Bbox) Blkinfo {
	c := b.Center()
	return Blkinfo{
		X: int(math.Floor(c.X / l.TileW)),
		Y: int(math.Floor(c.Y / l.TileH)),
	}
}

// Span returns the inclusive tile ranges whose interiors b overlaps.
func (l *Lvl) Span(b geom.Bbox) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(b.Min.X / l.TileW))
	y0 = int(math.Floor(b.Min.Y / l.TileH))
	x1 = int(math.Ceil(b.Max.X/l.TileW)) - 1
	y1 = int(math.Ceil(b.Max.Y/l.TileH)) - 1
	return
}
