package shape_test

import (
	"fmt"

	"github.com/matzehuels/netgrid/pkg/shape"
)

func ExampleLookup() {
	k, _ := shape.Parse("XOR")
	s := shape.Lookup(k)
	fmt.Printf("%s %dx%d\n", s.Name, s.Width, s.Height)
	fmt.Println("inputs:", s.InputNames, s.InputOffsets)
	fmt.Println("outputs:", s.OutputNames, s.OutputOffsets)
	fmt.Println("commutative:", s.Commutative)
	// Output:
	// XOR 1x3
	// inputs: [A B] [0 2]
	// outputs: [Y] [1]
	// commutative: true
}

func ExampleParse_unknown() {
	_, err := shape.Parse("MUX")
	fmt.Println(err)
	// Output:
	// UNKNOWN_GATE: unsupported cell type "MUX"
}
