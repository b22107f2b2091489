package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javameta/descriptor"
	"github.com/dhamidi/javameta/format"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types <descriptor>",
		Short: "Translate a JVM type or method descriptor into generic type names",
		Long: `Translate a JVM descriptor into the generic type names used by RPC
peers, one per line.

Examples:
  javameta types 'Ljava/util/List;[[I'
  javameta types '(Ljava/lang/String;J)Ljava/util/Map;'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc := args[0]
			enc := format.NewLineEncoder(cmd.OutOrStdout())

			if strings.HasPrefix(desc, "(") {
				m, err := descriptor.DecodeMethod(desc)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "method\t%s\n", m)
				return nil
			}

			types, err := descriptor.DecodeAll(desc)
			if err != nil {
				return err
			}
			return enc.EncodeTypes(types)
		},
	}
}
