package models

import (
	"fmt"
	"strings"
)

type Handedness int

const (
	Left Handedness = iota
	Right
	Both
)

// ParseHandedness accepts the words used on player pages ("Left", "Right", "Both").
func ParseHandedness(s string) (Handedness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "both":
		return Both, nil
	}
	return 0, fmt.Errorf("unknown handedness %q", s)
}

func (h Handedness) String() string {
	switch h {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Both:
		return "Both"
	}
	return fmt.Sprintf("Handedness(%d)", int(h))
}

type TimeOfDay int

const (
	Day TimeOfDay = iota
	Night
)

func (t TimeOfDay) String() string {
	if t == Night {
		return "Night"
	}
	return "Day"
}

type FieldType int

const (
	Turf FieldType = iota
	Grass
)

func (f FieldType) String() string {
	if f == Grass {
		return "Grass"
	}
	return "Turf"
}

// OnBase is a bitmask of occupied bases.
type OnBase int

const (
	Empty  OnBase = 0
	First  OnBase = 1
	Second OnBase = 2
	Third  OnBase = 4
)

// String renders the bases in the "1-3" form of the play-by-play table.
func (o OnBase) String() string {
	b := []byte("---")
	for i, flag := range [...]OnBase{First, Second, Third} {
		if o&flag != 0 {
			b[i] = byte('1' + i)
		}
	}
	return string(b)
}

// ParseRunners converts a "1-3" style runner string into a bitmask. A '-' in
// position i means base i+1 is empty.
func ParseRunners(s string) OnBase {
	flags := [...]OnBase{First, Second, Third}
	var on OnBase
	for i, r := range s {
		if i >= len(flags) {
			break
		}
		if r != '-' {
			on |= flags[i]
		}
	}
	return on
}
