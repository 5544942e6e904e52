// Package main provides the dmtree binary: a debugging tool that builds
// a DreamMaker object tree from declaration listings and inspects the
// result. It loads the builtin registry, feeds each listing through the
// tree builder, finalizes, and prints what the compiler front end would
// see.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dmtree",
		Short: "Inspect DreamMaker object trees",
		Long: `Dmtree builds the object tree a DreamMaker front end would see from
declaration listings: one declaration path per line, with optional
values and parameter lists.

The builtin type hierarchy (/datum, /atom, /obj, /mob, ...) is always
loaded first, so user declarations merge on top of it exactly as they
would during compilation.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(dumpCmd())
	cmd.AddCommand(typesCmd())
	cmd.AddCommand(checkCmd())
	cmd.AddCommand(watchCmd())
	return cmd
}
