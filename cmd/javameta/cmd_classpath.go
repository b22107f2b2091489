package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClasspathCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "classpath",
		Short: "Print the resolved classpath, one entry per line",
		Long: `Print the classpath after resolution: every element made absolute,
symlinks resolved, duplicates and entries that are neither a directory nor a
.jar file removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := flags.newClassLoader()
			if err != nil {
				return err
			}
			for _, e := range l.ClassPath() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.Kind, e.Path)
			}
			return nil
		},
	}
}
