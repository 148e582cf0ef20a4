package grid

// Kind is the physical block kind held by a grid cell. The set is closed.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindWireH
	KindWireV
	KindCrossing
	KindCorner
	KindTee
	KindStar
	KindGate
	KindConstant
)

// Corner is the orientation of a corner cell, named after the two sides it
// connects.
type Corner uint8

const (
	LeftUp Corner = iota
	LeftDown
	DownRight
	UpRight
)

// Tee is the orientation of a T-junction, named after the three sides it
// connects.
type Tee uint8

const (
	LeftRightDown Tee = iota
	LeftRightUp
	RightUpDown
	LeftUpDown
)

// Gate is the logic primitive rendered by a gate-body cell.
type Gate uint8

const (
	GateInput Gate = iota
	GateOutput
	GateForward
	GateAnd
	GateNand
	GateOr
	GateNor
	GateNot
	GateXor
)

var gateNames = [...]string{"input", "output", "forward", "and", "nand", "or", "nor", "not", "xor"}

func (g Gate) String() string {
	if int(g) < len(gateNames) {
		return gateNames[g]
	}
	return "gate?"
}

// Cell is one grid position. Only the field matching Kind is meaningful; the
// others stay zero so cells compare with ==.
type Cell struct {
	Kind   Kind
	Corner Corner
	Tee    Tee
	Gate   Gate
}

// Predefined cells for the orientation-free kinds.
var (
	Air      = Cell{}
	WireH    = Cell{Kind: KindWireH}
	WireV    = Cell{Kind: KindWireV}
	Crossing = Cell{Kind: KindCrossing}
	Star     = Cell{Kind: KindStar}
	Constant = Cell{Kind: KindConstant}
)

// CornerCell returns a corner with the given orientation.
func CornerCell(o Corner) Cell { return Cell{Kind: KindCorner, Corner: o} }

// TeeCell returns a T-junction with the given orientation.
func TeeCell(o Tee) Cell { return Cell{Kind: KindTee, Tee: o} }

// GateCell returns a gate body of the given primitive.
func GateCell(g Gate) Cell { return Cell{Kind: KindGate, Gate: g} }

// IsEmpty reports whether the cell holds nothing.
func (c Cell) IsEmpty() bool { return c.Kind == KindEmpty }

// IsWire reports whether the cell is part of a wire (anything but empty,
// gate bodies and constant sources).
func (c Cell) IsWire() bool {
	switch c.Kind {
	case KindWireH, KindWireV, KindCrossing, KindCorner, KindTee, KindStar:
		return true
	}
	return false
}

// Rune returns the box-drawing character used by text dumps.
func (c Cell) Rune() rune {
	switch c.Kind {
	case KindWireH:
		return '─'
	case KindWireV:
		return '│'
	case KindCrossing:
		return '╂'
	case KindStar:
		return '┼'
	case KindConstant:
		return 'o'
	case KindCorner:
		switch c.Corner {
		case DownRight:
			return '┌'
		case LeftUp:
			return '┘'
		case LeftDown:
			return '┐'
		case UpRight:
			return '└'
		}
	case KindTee:
		switch c.Tee {
		case LeftRightDown:
			return '┬'
		case LeftRightUp:
			return '┴'
		case RightUpDown:
			return '├'
		case LeftUpDown:
			return '┤'
		}
	case KindGate:
		switch c.Gate {
		case GateInput:
			return '░'
		case GateForward:
			return '»'
		case GateNot:
			return '¬'
		case GateOr:
			return 'v'
		case GateAnd:
			return '^'
		}
		return '▓'
	}
	return ' '
}
