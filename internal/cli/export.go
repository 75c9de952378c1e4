package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codescope/internal/model"
	"codescope/internal/storage"
)

var (
	exportDBFlag     string
	exportRunFlag    string
	exportFormatFlag string
	exportOutputFlag string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export a persisted run back to JSON or YAML",
	Long: `Export reconstructs the document of a previously persisted run from the
database. Without --run it exports the latest run for the given root
directory (default: current directory).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDBFlag, "db", "", "SQLite database to read from (required)")
	exportCmd.Flags().StringVar(&exportRunFlag, "run", "", "Run ID (default: latest for the root)")
	exportCmd.Flags().StringVarP(&exportFormatFlag, "format", "f", "json", "Output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "-", "Output file ('-' for stdout)")
	exportCmd.MarkFlagRequired("db")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := model.ParseFormat(exportFormatFlag)
	if err != nil {
		return err
	}

	store, err := storage.Open(exportDBFlag)
	if err != nil {
		return err
	}
	defer store.Close()

	runID := exportRunFlag
	if runID == "" {
		rootDir, err := resolveRootDir(args)
		if err != nil {
			return err
		}
		runID, err = store.LatestRunID(rootDir)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("no runs recorded for %s", rootDir)
		}
		if err != nil {
			return err
		}
	}

	doc, err := store.LoadRun(runID)
	if err != nil {
		return err
	}

	if exportOutputFlag == "" || exportOutputFlag == "-" {
		encoded, err := doc.Encode(format)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(encoded)
		return err
	}
	if err := doc.WriteFile(exportOutputFlag, format); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported run %s to %s\n", runID, filepath.Clean(exportOutputFlag))
	return nil
}
