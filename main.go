package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"m3opgen/pkg/emit"
	"m3opgen/pkg/opgen"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := opgen.Config{Emit: emit.DefaultOptions()}
	var verbose bool

	cmd := &cobra.Command{
		Use:   "m3opgen [operations_reference.h]",
		Short: "Number the wasm3 operation table and generate the op-name header",
		Long: `m3opgen reads a wasm3 operation table, gives every M3OP, M3OP_F,
d_m3DebugOp and d_m3DebugTypedOp entry an explicit index, and writes two
files: the rewritten table (<input>.modified.h by default) and
m3_op_names_generated.h, which maps an opcode index back to its name.

Nothing is written unless the whole table was processed. Running the tool
on its own output is not idempotent: M3OP lines get a second index field.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.Input = args[0]
			}

			sum, err := opgen.Run(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if verbose {
				for _, e := range sum.Entries {
					fmt.Fprintf(out, "0x%02x %s\n", e.Index, e.Name)
				}
			}
			if sum.Written {
				fmt.Fprintf(out, "rewritten table -> %s\n", sum.Output)
				fmt.Fprintf(out, "generated header -> %s\n", sum.Header)
			}
			fmt.Fprintf(out, "found %d operations (%d distinct), next index %d\n", sum.Occurrences, sum.Identifiers, sum.Next)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.Output, "out", "o", "", "rewritten table path (default: <input>.modified<ext>)")
	f.StringVar(&cfg.Header, "header", "", "generated header path (default: "+opgen.DefaultHeaderName+" next to the input)")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "scan and report without writing anything")
	f.BoolVarP(&verbose, "verbose", "v", false, "list every numbered entry")
	f.StringVar(&cfg.Emit.Guard, "guard", cfg.Emit.Guard, "preprocessor condition around the generated listing")
	f.StringVar(&cfg.Emit.Prefix, "prefix", cfg.Emit.Prefix, "enumerator prefix")
	f.StringVar(&cfg.Emit.EnumType, "enum", cfg.Emit.EnumType, "enum type name")
	f.StringVar(&cfg.Emit.ArrayName, "array", cfg.Emit.ArrayName, "name array identifier")
	f.StringVar(&cfg.Emit.Accessor, "accessor", cfg.Emit.Accessor, "accessor function name")
	f.StringVar(&cfg.Emit.Section, "section", cfg.Emit.Section, "linker section for the name array (empty for none)")

	return cmd
}
