package models

import (
	"fmt"
	"strings"
)

// MaterialLine is a waste stream a collector or collection point can accept.
type MaterialLine string

const (
	LineVerde  MaterialLine = "VERDE"  // glass
	LineMarrom MaterialLine = "MARROM" // organic
	LineAzul   MaterialLine = "AZUL"   // paper and cardboard
	LineBranca MaterialLine = "BRANCA" // metal and plastic
)

// AllMaterialLines lists every accepted material line in display order.
var AllMaterialLines = []MaterialLine{LineVerde, LineMarrom, LineAzul, LineBranca}

var materialDescriptions = map[MaterialLine]string{
	LineVerde:  "Vidro",
	LineMarrom: "Orgânico",
	LineAzul:   "Papel/Papelão",
	LineBranca: "Metal/Plástico",
}

// Description returns the human label of the line.
func (l MaterialLine) Description() string {
	return materialDescriptions[l]
}

// Valid reports whether l is one of the fixed material lines.
func (l MaterialLine) Valid() bool {
	_, ok := materialDescriptions[l]
	return ok
}

// ParseMaterialLine normalises s (trim + upper case) and validates it.
func ParseMaterialLine(s string) (MaterialLine, error) {
	l := MaterialLine(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("invalid material line %q", s)
	}
	return l, nil
}

// Lines is a set of material lines kept in first-seen order.
type Lines []MaterialLine

// ParseMaterialLines parses a non-empty list of tags, dropping duplicates.
func ParseMaterialLines(raw []string) (Lines, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one material line is required")
	}
	out := make(Lines, 0, len(raw))
	seen := make(map[MaterialLine]bool, len(raw))
	for _, s := range raw {
		l, err := ParseMaterialLine(s)
		if err != nil {
			return nil, err
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out, nil
}

// Contains reports whether l is part of the set.
func (ls Lines) Contains(l MaterialLine) bool {
	for _, x := range ls {
		if x == l {
			return true
		}
	}
	return false
}

// MissingFrom returns the first line of ls that accepted does not contain.
// ok is true when accepted covers every line.
func (ls Lines) MissingFrom(accepted Lines) (missing MaterialLine, ok bool) {
	for _, l := range ls {
		if !accepted.Contains(l) {
			return l, false
		}
	}
	return "", true
}

// CoveredBy reports whether accepted is a superset of ls.
func (ls Lines) CoveredBy(accepted Lines) bool {
	_, ok := ls.MissingFrom(accepted)
	return ok
}

// Strings returns the lines as plain strings, e.g. for mongo $all queries.
func (ls Lines) Strings() []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = string(l)
	}
	return out
}
