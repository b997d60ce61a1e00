package physics

import "errors"

var ErrUnknownGate = errors.New("physics: unknown gate")

// Gates lists the supported gate types in menu order.
var Gates = []string{"AND", "OR", "NAND", "NOR", "XOR", "NOT"}

// Gate evaluates a two-input gate. NOT ignores b.
func Gate(kind string, a, b bool) (bool, error) {
	switch kind {
	case "AND":
		return a && b, nil
	case "OR":
		return a || b, nil
	case "NAND":
		return !(a && b), nil
	case "NOR":
		return !(a || b), nil
	case "XOR":
		return a != b, nil
	case "NOT":
		return !a, nil
	}
	return false, ErrUnknownGate
}

// TruthTable lists every input row of kind with its output.
func TruthTable(kind string) ([][3]bool, error) {
	var rows [][3]bool
	for _, a := range []bool{false, true} {
		for _, b := range []bool{false, true} {
			if kind == "NOT" && b {
				continue
			}
			out, err := Gate(kind, a, b)
			if err != nil {
				return nil, err
			}
			rows = append(rows, [3]bool{a, b, out})
		}
	}
	return rows, nil
}
