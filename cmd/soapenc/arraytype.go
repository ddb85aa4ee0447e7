package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CognitoIQ/go-soapenc/internal/commandline"
	"github.com/CognitoIQ/go-soapenc/soapenc"
	"github.com/CognitoIQ/go-soapenc/xsd"
)

type arrayTypeOutput struct {
	Namespace  string `yaml:"namespace,omitempty"`
	Type       string `yaml:"type"`
	Rank       int    `yaml:"rank"`
	Dimensions []int  `yaml:"dimensions,flow"`
	Offset     int    `yaml:"offset"`
	Total      int    `yaml:"total"`
	Size       int    `yaml:"size"`
}

func newArrayTypeCmd() *cobra.Command {
	ns := commandline.BindingList{
		{Prefix: "xsd", Space: xsd.SchemaNS},
		{Prefix: "soapenc", Space: soapenc.EncodingNS11},
	}
	var offset string
	cmd := &cobra.Command{
		Use:   "arraytype value",
		Short: "Parse a soapenc:arrayType attribute value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := soapenc.ParseArrayType(ns, args[0], offset)
			if err != nil {
				return err
			}
			out := arrayTypeOutput{
				Namespace:  info.TypeName.Space,
				Type:       info.TypeName.Local,
				Rank:       info.Rank,
				Dimensions: info.Dimensions,
				Offset:     info.Offset,
				Total:      info.TotalDimensions(),
				Size:       info.Size(),
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().VarP(&ns, "ns", "n", "bind a namespace prefix")
	cmd.Flags().StringVar(&offset, "offset", "", "value of the soapenc:offset attribute")
	return cmd
}
