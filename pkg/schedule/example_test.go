package schedule_test

import (
	"fmt"

	"github.com/qcviz/qcviz/pkg/circuit"
	"github.com/qcviz/qcviz/pkg/schedule"
)

// Schedule a small circuit and print the level of each gate.
func ExampleLevels() {
	c := circuit.New()
	c.AllocateQubits(3)
	c.AddH(0)
	c.AddH(1)
	c.AddCNOT(0, 1)
	c.AddH(2)

	levels := schedule.Levels(c)
	for i, l := range levels {
		fmt.Printf("gate %d: level %d\n", i, l)
	}
	fmt.Printf("columns: %d\n", schedule.MaxLevel(levels)+1)

	// Output:
	// gate 0: level 0
	// gate 1: level 0
	// gate 2: level 1
	// gate 3: level 0
	// columns: 2
}

// A gate spanning distant wires claims the wires its connector crosses,
// so a crossing gate moves to the next column. WithoutWidening packs
// purely on data dependencies.
func ExampleWithoutWidening() {
	c := circuit.New()
	c.AllocateQubits(4)
	c.AddCNOT(0, 3)
	c.AddH(2)

	fmt.Println("widened:", schedule.Levels(c))
	fmt.Println("packed: ", schedule.Levels(c, schedule.WithoutWidening()))

	// Output:
	// widened: [0 1]
	// packed:  [0 0]
}
