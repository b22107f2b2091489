package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javameta/java"
	"github.com/dhamidi/javameta/loader"
)

func newJarCmd() *cobra.Command {
	var jarFormat string

	cmd := &cobra.Command{
		Use:   "jar <file.jar> <class>",
		Short: "Describe a class read from a single jar file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loader.OpenJarLoader(args[0])
			if err != nil {
				return err
			}
			defer l.Close()

			cf, err := l.GetClassDef(args[1])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[1], err)
			}
			if cf == nil {
				return fmt.Errorf("class %s not found in %s", args[1], args[0])
			}
			model, err := java.ClassModelFromClassFile(cf)
			if err != nil {
				return err
			}
			return encodeModel(cmd.OutOrStdout(), jarFormat, model)
		},
	}

	cmd.Flags().StringVarP(&jarFormat, "format", "f", "line", "output format (json, line)")

	return cmd
}
