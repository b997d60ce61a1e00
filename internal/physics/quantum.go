package physics

import (
	"fmt"
	"math"
	"strings"
)

// Level maps a normalised excitation energy in [0,1] onto one of three
// levels: 0 below 0.33, 1 below 0.66, 2 above.
func Level(energy float64) int {
	switch {
	case energy < 0.33:
		return 0
	case energy < 0.66:
		return 1
	}
	return 2
}

// Materials lists the semiconductor band gaps in eV.
var Materials = []struct {
	Name string
	Gap  float64
}{
	{"Silicon", 1.12},
	{"Germanium", 0.67},
	{"GaAs", 1.43},
}

func MaterialNames() []string {
	out := make([]string, len(Materials))
	for i, m := range Materials {
		out[i] = m.Name
	}
	return out
}

// BandGap returns the gap of the named material, or 0 when unknown.
func BandGap(material string) float64 {
	for _, m := range Materials {
		if m.Name == material {
			return m.Gap
		}
	}
	return 0
}

const maxStreams = 8

// Photoemission reports whether light of photon energy e (eV) frees
// electrons across gap, and how many electron streams the excess energy
// drives, capped at 8.
func Photoemission(e, gap float64) (emits bool, streams int) {
	if e < gap {
		return false, 0
	}
	return true, min(maxStreams, int(math.Floor((e-gap)*6))+1)
}

// Subshell is one row of the orbital diagram.
type Subshell struct {
	N     int
	Label string
	Boxes int
}

// Subshells is the Aufbau filling order up to 6p.
var Subshells = []Subshell{
	{1, "1s", 1},
	{2, "2s", 1}, {2, "2p", 3},
	{3, "3s", 1}, {3, "3p", 3},
	{4, "4s", 1}, {3, "3d", 5}, {4, "4p", 3},
	{5, "5s", 1}, {4, "4d", 5}, {5, "5p", 3},
	{6, "6s", 1}, {4, "4f", 7}, {5, "5d", 5}, {6, "6p", 3},
}

// OrbitalCapacity is the number of electrons Subshells can hold.
func OrbitalCapacity() int {
	n := 0
	for _, s := range Subshells {
		n += 2 * s.Boxes
	}
	return n
}

// Fill places n electrons into Subshells in order. Within a subshell every
// box takes a spin-up electron before any box is paired (Hund's rule). Each
// entry of the result holds 0, 1 or 2 per box.
func Fill(n int) [][]int {
	out := make([][]int, len(Subshells))
	for i, s := range Subshells {
		out[i] = make([]int, s.Boxes)
		take := min(max(n, 0), 2*s.Boxes)
		n -= take
		for j := range out[i] {
			switch {
			case take > s.Boxes+j:
				out[i][j] = 2
			case take > j:
				out[i][j] = 1
			}
		}
	}
	return out
}

// Configuration writes the electron configuration of n electrons, e.g.
// "1s2 2s2 2p3".
func Configuration(n int) string {
	var parts []string
	for i, boxes := range Fill(n) {
		count := 0
		for _, b := range boxes {
			count += b
		}
		if count == 0 {
			break
		}
		parts = append(parts, fmt.Sprintf("%s%d", Subshells[i].Label, count))
	}
	return strings.Join(parts, " ")
}
