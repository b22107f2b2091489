package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConstantsCmd(flags *globalFlags) *cobra.Command {
	var (
		constantsFormat string
		declared        bool
	)

	cmd := &cobra.Command{
		Use:   "constants <class>",
		Short: "Print the public static final constants of a class",
		Long: `Print the public static final fields of a class that carry a literal
value: primitives, String and the java.lang boxed types.

With --declared the values are not resolved and every eligible field is
printed with an empty value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := flags.newClassLoader()
			if err != nil {
				return err
			}
			create := l.CreateConstantObject
			if declared {
				create = l.CreateObject
			}
			obj, err := create(args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			if obj == nil {
				return fmt.Errorf("class %s not found on classpath %s", args[0], l.ClassPath())
			}
			return encodeObject(cmd.OutOrStdout(), constantsFormat, obj)
		},
	}

	cmd.Flags().StringVarP(&constantsFormat, "format", "f", "line", "output format (json, line)")
	cmd.Flags().BoolVar(&declared, "declared", false, "list eligible fields without resolving their values")

	return cmd
}
