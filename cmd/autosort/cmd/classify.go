package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brianly1003/autosort/internal/domain/rules"
)

// classifyCmd shows where files would be sorted without moving them.
var classifyCmd = &cobra.Command{
	Use:   "classify <file>...",
	Short: "Show where files would be sorted (dry run)",
	Long: `Show the destination each file would be moved to under the current
rules. Nothing is moved.

Example:
  autosort classify report.pdf photo.JPG archive.tar.gz`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		rs := store.Snapshot().RuleSet()

		failed := 0
		for _, name := range args {
			dest, err := rules.ClassifyPath(name, rs)
			if err != nil {
				fmt.Printf("%s: %v\n", name, err)
				failed++
				continue
			}
			fmt.Printf("%s -> %s\n", name, filepath.Join(dest.Folder, filepath.Base(name)))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files could not be classified", failed, len(args))
		}
		return nil
	},
}
