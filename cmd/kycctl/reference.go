package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"investogun/internal/reference"
)

func referenceCmd(defaultFile string) *cobra.Command {
	var (
		kind   string
		format string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Print the option lists used by the form",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			data, err := reference.Load(file)
			if err != nil {
				return err
			}

			var v any = data
			if kind != "" {
				list := data.List(reference.Kind(kind))
				if list == nil {
					return fmt.Errorf("unknown kind %q (want one of %s)", kind, kindNames())
				}
				v = list
			}
			return writeReference(c.OutOrStdout(), format, v)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only print one list: "+kindNames())
	cmd.Flags().StringVarP(&format, "format", "o", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVar(&file, "file", defaultFile, "Reference data file (embedded data when empty)")
	return cmd
}

func writeReference(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}

func kindNames() string {
	names := make([]string, 0, len(reference.Kinds))
	for _, k := range reference.Kinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
