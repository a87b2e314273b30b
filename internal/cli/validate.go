package cli

import (
	"github.com/spf13/cobra"

	"github.com/paperfig/paperfig/pkg/spec"
)

// newValidateCmd creates the validate command: load and schema-check a spec
// file without rendering anything.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <spec-file>",
		Short: "Validate a JSON figure spec without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := spec.Load(args[0])
			if err != nil {
				return err
			}
			if err := tree.Validate(); err != nil {
				return err
			}
			printSuccess("spec is valid")
			printDetail("%d top-level figures", tree.Len())
			return nil
		},
	}
}
