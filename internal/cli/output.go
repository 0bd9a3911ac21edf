package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// render prints v as indented JSON when --json is set, otherwise the
// formatted text produced by text.
func render(cmd *cobra.Command, opts *rootOptions, v any, text func() string) error {
	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), text())
	return nil
}
