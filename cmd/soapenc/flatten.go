package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/CognitoIQ/go-soapenc/xmlref"
)

func newFlattenCmd(g *globalFlags) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "flatten [pattern ...]",
		Short: "Replace href references with copies of their targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				data, err := readInput(cmd, "")
				if err != nil {
					return err
				}
				return flattenTo(cmd, "", data, "")
			}
			var files []string
			for _, pattern := range args {
				matches, err := doublestar.FilepathGlob(pattern)
				if err != nil {
					return fmt.Errorf("%s: %v", pattern, err)
				}
				if len(matches) == 0 {
					return fmt.Errorf("%s: no matching files", pattern)
				}
				files = append(files, matches...)
			}
			for _, file := range files {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				if g.verbose > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "flatten %s\n", file)
				}
				if err := flattenTo(cmd, file, data, outDir); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "write flattened files to this directory")
	return cmd
}

// flattenTo writes the flattened form of data, read from the named
// file, to a file of the same base name in dir, or to standard
// output if dir is empty.
func flattenTo(cmd *cobra.Command, file string, data []byte, dir string) error {
	flat, err := xmlref.Flatten(data)
	if err != nil {
		if file != "" {
			return fmt.Errorf("%s: %v", file, err)
		}
		return err
	}
	if dir == "" {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", flat)
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filepath.Base(file)), flat, 0o644)
}
