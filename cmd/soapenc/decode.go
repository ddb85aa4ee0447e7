package main

import (
	"encoding/base64"
	"fmt"
	"reflect"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CognitoIQ/go-soapenc/soapenc"
	"github.com/CognitoIQ/go-soapenc/xmlref"
)

func newDecodeCmd(g *globalFlags) *cobra.Command {
	var strict, flatten bool
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Print the first element of a SOAP Body as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, optionalArg(args))
			if err != nil {
				return err
			}
			if flatten {
				if data, err = xmlref.Flatten(data); err != nil {
					return err
				}
			}
			opts := append(g.options(cmd.ErrOrStderr()), soapenc.StrictReferences(strict))
			cfg := soapenc.NewConfig(opts...)

			var v interface{}
			if err := cfg.Unmarshal(data, &v); err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(snapshot(reflect.ValueOf(v), make(map[uintptr]bool))); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on references to undefined ids")
	cmd.Flags().BoolVar(&flatten, "flatten", false, "replace references with copies before decoding")
	return cmd
}

// snapshot copies a decoded value into a tree that the YAML encoder
// can print. Values that refer to one of their ancestors are
// replaced with the string "<cycle>".
func snapshot(v reflect.Value, active map[uintptr]bool) interface{} {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			return base64.StdEncoding.EncodeToString(v.Bytes())
		}
		p := v.Pointer()
		if v.Kind() == reflect.Slice && v.Len() == 0 {
			return []interface{}{}
		}
		if active[p] {
			return "<cycle>"
		}
		active[p] = true
		defer delete(active, p)
	}

	switch v.Kind() {
	case reflect.Ptr:
		return snapshot(v.Elem(), active)
	case reflect.Map:
		m := make(map[string]interface{}, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = snapshot(iter.Value(), active)
		}
		return m
	case reflect.Slice, reflect.Array:
		list := make([]interface{}, v.Len())
		for i := range list {
			list[i] = snapshot(v.Index(i), active)
		}
		return list
	case reflect.Struct:
		m := make(map[string]interface{})
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				m[t.Field(i).Name] = snapshot(v.Field(i), active)
			}
		}
		if len(m) == 0 {
			return fmt.Sprint(v.Interface())
		}
		return m
	}
	return v.Interface()
}
