package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
)

// ResetCommand creates the reset command and its targets
func ResetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove generated state",
	}
	cmd.AddCommand(resetSourceDataCommand())
	return cmd
}

func resetSourceDataCommand() *cobra.Command {
	var (
		dataDir  string
		preserve []string
	)

	cmd := &cobra.Command{
		Use:   "source-data",
		Short: "Delete the generated event tree, keeping preserved entries",
		Long: `Delete everything directly under the data directory except the
preserved entries. The warehouse directory is kept by default so that
downstream databases survive a regeneration.

Examples:
  callcenter-sim reset source-data
  callcenter-sim reset source-data --data-dir=/tmp/data --preserve=warehouse --preserve=notes.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Clean(cmd.OutOrStdout(), dataDir, preserve)
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "Directory holding the generated tables")
	cmd.Flags().StringSliceVar(&preserve, "preserve", []string{"warehouse"}, "Entries to keep (repeatable)")

	return cmd
}

// Clean removes every entry directly under dir whose name is not in preserve.
// A missing dir is reported and skipped.
func Clean(out io.Writer, dir string, preserve []string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(out, "SKIPPING: %s does not exist\n", dir)
			return nil
		}
		return fmt.Errorf("error reading %s: %w", dir, err)
	}

	for _, e := range entries {
		if slices.Contains(preserve, e.Name()) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("error removing %s: %w", e.Name(), err)
		}
	}

	for _, name := range preserve {
		fmt.Fprintf(out, "PRESERVED: %s\n", filepath.Join(dir, name))
	}
	fmt.Fprintf(out, "COMPLETED: Cleaned %s\n", dir)
	return nil
}
