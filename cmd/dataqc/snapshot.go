package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ukaji3/dataqc-go/pkg/dataqc"
	"github.com/ukaji3/dataqc-go/pkg/dataqc/models"
	"github.com/ukaji3/dataqc-go/pkg/dataqc/output"
)

func newSnapshotCmd() *cobra.Command {
	var (
		outputPath string
		pretty     bool
		sheetsDir  string
		exclude    []string
	)

	cmd := &cobra.Command{
		Use:   "snapshot [input.xlsx]",
		Short: "Normalize a workbook into a sparse JSON snapshot",
		Long: `snapshot writes the cell-addressed workbook snapshot that the analysis
hands to the model: populated cells only, with formulas, declared types and
number formats.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			data, err := readInput(inputPath)
			if err != nil {
				return err
			}

			opts := dataqc.Options{ExcludeSheets: exclude}
			result := dataqc.Normalize(data, opts)
			if !result.IsOK() {
				return fmt.Errorf("extraction failed: %w", result.Err)
			}
			wb := result.Value

			jsonData, err := output.ToJSON(wb, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			} else if sheetsDir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			}

			if sheetsDir != "" {
				if err := writeSheetFiles(wb, sheetsDir, pretty); err != nil {
					return fmt.Errorf("failed to write sheet files: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	cmd.Flags().StringSliceVar(&exclude, "exclude", []string{dataqc.DefaultExcludedSheet}, "Sheet names to skip (case-insensitive)")
	return cmd
}

func writeSheetFiles(wb *models.WorkbookSnapshot, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for i := range wb.Sheets {
		sheet := &wb.Sheets[i]
		jsonData, err := output.SheetToJSON(sheet, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, sheet.Name+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}
