package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/javameta/loader"

	_ "github.com/tliron/commonlog/simple"
)

// classPathEnv is consulted when --classpath is not given.
const classPathEnv = "PD_CLASSPATH"

type globalFlags struct {
	classPath string
	verbose   int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "javameta:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "javameta",
		Short:         "Read service metadata and constants from compiled Java classes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(flags.verbose, nil)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.classPath, "classpath", "c", os.Getenv(classPathEnv),
		"classpath of directories and .jar files separated by ':' or ';' (default $"+classPathEnv+")")
	rootCmd.PersistentFlags().CountVarP(&flags.verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newDescribeCmd(flags))
	rootCmd.AddCommand(newConstantsCmd(flags))
	rootCmd.AddCommand(newClasspathCmd(flags))
	rootCmd.AddCommand(newJarCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newTypesCmd())
	rootCmd.AddCommand(newServeCmd(flags))

	return rootCmd
}

func (f *globalFlags) newClassLoader() (*loader.ClassLoader, error) {
	l, err := loader.NewClassLoader(f.classPath)
	if err != nil {
		return nil, fmt.Errorf("%w (set --classpath or $%s)", err, classPathEnv)
	}
	return l, nil
}
