package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"decisim-mcp/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate a simulation document file or a directory of documents",
	Long: `Runs the two-stage validator: structural schema checks first, then
cross-field business rules. Exits non-zero when any document is invalid;
warnings are printed but never fail the command.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}

		var out validate.DirResult
		if info.IsDir() {
			out, err = validate.ValidateDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}
		} else {
			res := validate.ValidateFile(args[0])
			out = validate.DirResult{
				Valid:   res.Valid,
				Checked: 1,
				Files:   []validate.FileResult{{Path: args[0], Result: res}},
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
		if !out.Valid {
			return fmt.Errorf("%d of %d documents failed validation", countInvalid(out), out.Checked)
		}
		return nil
	},
}

func countInvalid(out validate.DirResult) int {
	n := 0
	for _, fr := range out.Files {
		if !fr.Result.Valid {
			n++
		}
	}
	return n
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
