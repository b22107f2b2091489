package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javameta/java"
)

func newDumpCmd() *cobra.Command {
	var dumpFormat string

	cmd := &cobra.Command{
		Use:   "dump <file.class>",
		Short: "Dump the class model of a .class file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			if ext := filepath.Ext(filename); ext != ".class" {
				return fmt.Errorf("unsupported file extension: %s (expected .class)", ext)
			}
			model, err := java.ClassModelFromFile(filename)
			if err != nil {
				return fmt.Errorf("parse class file: %w", err)
			}
			return encodeModel(cmd.OutOrStdout(), dumpFormat, model)
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "line", "output format (json, line)")

	return cmd
}
