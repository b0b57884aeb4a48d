package model

import (
	"sort"
)

// Phase is a seismic phase label.
type Phase string

const (
	PhaseP Phase = "P"
	PhaseS Phase = "S"
)

// ParsePhase recognises exactly "P" and "S".
func ParsePhase(s string) (Phase, bool) {
	switch Phase(s) {
	case PhaseP, PhaseS:
		return Phase(s), true
	default:
		return "", false
	}
}

// Measurement is one station pick of one data line.
type Measurement struct {
	Station     string
	DiffTime    float64
	Correlation float64
	Phase       Phase
}

// Group holds the measurements of one event pair, keyed by station.
type Group struct {
	// Index is the 1-based position of the group in the input.
	Index int
	// Header is the marker line without its '#'.
	Header string
	P      map[string]float64
	S      map[string]float64
}

// NewGroup creates an empty group.
func NewGroup(index int, header string) *Group {
	return &Group{
		Index:  index,
		Header: header,
		P:      make(map[string]float64),
		S:      make(map[string]float64),
	}
}

// Add stores a measurement. A later measurement for the same station and phase replaces the earlier one.
func (g *Group) Add(m Measurement) {
	switch m.Phase {
	case PhaseP:
		g.P[m.Station] = m.DiffTime
	case PhaseS:
		g.S[m.Station] = m.DiffTime
	}
}

// DualStations returns the stations with both a P and an S time, sorted by name.
func (g *Group) DualStations() []string {
	stations := make([]string, 0, len(g.P))
	for station := range g.P {
		if _, ok := g.S[station]; ok {
			stations = append(stations, station)
		}
	}

	sort.Strings(stations)

	return stations
}

// Sample is one mean-removed (P, S) pair.
type Sample struct {
	P float64
	S float64
}
