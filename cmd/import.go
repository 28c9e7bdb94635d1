package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UgwuGeorge/Past-Questions/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file-or-dir>",
	Short: "Import past-question JSON documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		im := importer.New(s.Exams(), s.Questions(), log)
		res, err := im.ImportPath(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d file(s): %d questions added, %d skipped, %d file(s) failed.\n",
			res.FilesProcessed, res.Added, res.Skipped, res.FilesFailed)
		return nil
	},
}
