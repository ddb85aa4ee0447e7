package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/CognitoIQ/go-soapenc/soapenc"
)

type globalFlags struct {
	verbose int
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:           "soapenc",
		Short:         "Inspect and produce SOAP-encoded messages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "increase log verbosity")
	root.AddCommand(
		newArrayTypeCmd(),
		newDecodeCmd(&g),
		newEncodeCmd(&g),
		newFlattenCmd(&g),
	)
	return root
}

// options returns the soapenc options selected by the global
// flags.
func (g *globalFlags) options(stderr io.Writer) []soapenc.Option {
	return []soapenc.Option{
		soapenc.LogOutput(log.New(stderr, "", 0)),
		soapenc.LogLevel(g.verbose),
	}
}

// readInput reads the named file, or standard input if name is
// empty or "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
