package main

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CognitoIQ/go-soapenc/soapenc"
)

func newEncodeCmd(g *globalFlags) *cobra.Command {
	var (
		name, namespace string
		soap12          bool
		indent          int
	)
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Write a YAML mapping as an RPC/encoded SOAP message",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("the --name flag is required")
			}
			data, err := readInput(cmd, optionalArg(args))
			if err != nil {
				return err
			}
			var v map[string]interface{}
			if err := yaml.Unmarshal(data, &v); err != nil {
				return err
			}
			if v == nil {
				return errors.New("input is not a YAML mapping")
			}
			version := soapenc.SOAP11
			if soap12 {
				version = soapenc.SOAP12
			}
			opts := append(g.options(cmd.ErrOrStderr()),
				soapenc.Namespace(namespace),
				soapenc.SOAPVersion(version),
				soapenc.Indent(indent),
			)
			cfg := soapenc.NewConfig(opts...)
			msg, err := cfg.Marshal(xml.Name{Space: namespace, Local: name}, v)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", msg)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "local name of the message element")
	cmd.Flags().StringVar(&namespace, "namespace", soapenc.DefaultNamespace, "namespace of the message element")
	cmd.Flags().BoolVar(&soap12, "soap12", false, "write a SOAP 1.2 envelope")
	cmd.Flags().IntVar(&indent, "indent", 2, "spaces to indent nested elements by")
	return cmd
}
