package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDescribeCmd(flags *globalFlags) *cobra.Command {
	var describeFormat string

	cmd := &cobra.Command{
		Use:   "describe <class>",
		Short: "Print the fields and methods of a class found on the classpath",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := flags.newClassLoader()
			if err != nil {
				return err
			}
			model, err := l.Describe(args[0])
			if err != nil {
				return fmt.Errorf("describe %s: %w", args[0], err)
			}
			if model == nil {
				return fmt.Errorf("class %s not found on classpath %s", args[0], l.ClassPath())
			}
			return encodeModel(cmd.OutOrStdout(), describeFormat, model)
		},
	}

	cmd.Flags().StringVarP(&describeFormat, "format", "f", "line", "output format (json, line)")

	return cmd
}
