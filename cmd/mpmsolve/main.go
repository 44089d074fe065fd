package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mpmsolve",
		Short: "Material point method solver",
	}

	root.AddCommand(newSolveCmd())
	root.AddCommand(newInitConfigCmd())

	return root
}
