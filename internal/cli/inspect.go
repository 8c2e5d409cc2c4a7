package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qcviz/qcviz/pkg/circuit"
	"github.com/qcviz/qcviz/pkg/qasm"
	"github.com/qcviz/qcviz/pkg/schedule"
)

// inspectCommand creates the inspect command, which parses a circuit and
// prints its schedule without rendering anything.
func (c *CLI) inspectCommand() *cobra.Command {
	var noWiden bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the gate schedule for a circuit",
		Long: `Inspect parses an OpenQASM file (or stdin with "-") and prints each
gate with the execution level the scheduler assigned to it. Gates on
the same level can run in parallel.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], noWiden)
		},
	}

	cmd.Flags().BoolVar(&noWiden, "no-overlap", false, "disable overlap suppression (gates may share a column across crossing wires)")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, noWiden bool) error {
	source, err := readSource(input)
	if err != nil {
		return err
	}

	spin := newSpinnerWithContext(ctx, "Scheduling circuit...")
	spin.Start()

	circ, err := qasm.DecodeString(source)
	if err != nil {
		spin.Stop()
		return err
	}

	var opts []schedule.Option
	if noWiden {
		opts = append(opts, schedule.WithoutWidening())
	}
	levels := schedule.Levels(circ, opts...)
	spin.Stop()

	printKeyValue("Qubits", fmt.Sprintf("%d", circ.NumQubits()))
	printKeyValue("Classical", fmt.Sprintf("%d", circ.NumClassicalBits()))
	printKeyValue("Gates", fmt.Sprintf("%d", circ.NumGates()))
	printKeyValue("Levels", fmt.Sprintf("%d", schedule.MaxLevel(levels)+1))
	fmt.Println()

	for i, g := range circ.Gates() {
		fmt.Printf("  %s %s %s %s\n",
			StyleNumber.Render(fmt.Sprintf("%3d", i)),
			StyleValue.Render(fmt.Sprintf("%-12s", gateName(g))),
			StyleDim.Render(fmt.Sprintf("wires %-10s", wireList(circ, g))),
			StyleHighlight.Render(fmt.Sprintf("level %d", levels[i])))
	}
	return nil
}

// gateName formats a gate for display, expanding conditionals to show
// the inner gate kind.
func gateName(g circuit.Gate) string {
	if cond, ok := g.(circuit.Conditional); ok {
		return fmt.Sprintf("%s[%s]", cond.Kind(), cond.Inner)
	}
	return g.Kind().String()
}

// wireList formats the unified wire indices a gate touches.
func wireList(c *circuit.Circuit, g circuit.Gate) string {
	wires := c.DependencyWires(g)
	parts := make([]string, len(wires))
	for i, w := range wires {
		if w >= c.NumQubits() {
			parts[i] = fmt.Sprintf("c%d", w-c.NumQubits())
		} else {
			parts[i] = fmt.Sprintf("q%d", w)
		}
	}
	return strings.Join(parts, ",")
}
