package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/javameta/server"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer describe, constants, classpath and types requests as JSON-RPC on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := flags.newClassLoader()
			if err != nil {
				return err
			}
			return server.New(l).RunStdio(cmd.Context())
		},
	}
}
