package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered simulation documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		type entry struct {
			Name        string   `json:"name"`
			Category    string   `json:"category"`
			Version     string   `json:"version"`
			Description string   `json:"description"`
			Tags        []string `json:"tags"`
		}
		docs := reg.List()
		entries := make([]entry, 0, len(docs))
		for _, doc := range docs {
			entries = append(entries, entry{
				Name:        doc.Name,
				Category:    doc.Category,
				Version:     doc.Version,
				Description: doc.Description,
				Tags:        doc.Tags,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
