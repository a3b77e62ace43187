package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/langdetect/internal/engine/langs"
)

func (a *app) languagesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List language codes and display names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := langs.Default()
			if f := a.cfg.Model.LanguagesFile; f != "" {
				var err error
				if names, err = langs.LoadFile(f); err != nil {
					return err
				}
			}
			return printLanguages(cmd.OutOrStdout(), names, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as a JSON object")
	return cmd
}

func printLanguages(w io.Writer, names *langs.Names, asJSON bool) error {
	m := names.Map()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", code, m[code]); err != nil {
			return err
		}
	}
	return nil
}
