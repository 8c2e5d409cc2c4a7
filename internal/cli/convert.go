package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qcviz/qcviz/pkg/qasm"
)

// convertCommand creates the convert command, which re-emits a circuit
// as canonical OpenQASM 2.0.
func (c *CLI) convertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Rewrite a circuit as canonical OpenQASM 2.0",
		Long: `Convert parses an OpenQASM file (or stdin with "-") and writes it
back out in canonical form: one gate per line, normalized register
names, comments stripped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}

			circ, err := qasm.DecodeString(source)
			if err != nil {
				return err
			}

			canonical, err := qasm.EncodeString(circ)
			if err != nil {
				return err
			}

			dest := output
			if dest == "" {
				dest = "-"
			}
			out, err := openOutput(dest)
			if err != nil {
				return err
			}
			defer out.Close()

			if _, err := fmt.Fprint(out, canonical); err != nil {
				return err
			}
			if dest != "-" {
				printSuccess("Converted %d gates", circ.NumGates())
				printFile(dest)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" or empty for stdout`)

	return cmd
}
