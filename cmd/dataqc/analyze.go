package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/ukaji3/dataqc-go/internal/logger"
	"github.com/ukaji3/dataqc-go/pkg/dataqc"
	"github.com/ukaji3/dataqc-go/pkg/dataqc/reasoning"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		flags      llmFlags
		outputPath string
		render     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [spec.pdf] [data.xlsx]",
		Short: "Compare a workbook against a PDF specification",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return dataqc.ErrMissingInput
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := readInput(args[0])
			if err != nil {
				return err
			}
			workbook, err := readInput(args[1])
			if err != nil {
				return err
			}
			if err := dataqc.ValidateInputs(spec, workbook); err != nil {
				return err
			}

			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := logger.ContextWithLogger(cmd.Context(), log)

			analyzer, err := newAnalyzer(ctx, cfg, flags)
			if err != nil {
				return err
			}

			report, err := analyzer.Analyze(ctx, spec, workbook)
			if err != nil && !errors.Is(err, reasoning.ErrMaxTurnsExceeded) {
				return fmt.Errorf("analysis failed: %w", err)
			}
			if err != nil {
				log.Warn("report is partial", "error", err)
			}

			if outputPath != "" {
				if werr := os.WriteFile(outputPath, []byte(report), 0644); werr != nil {
					return fmt.Errorf("failed to write output: %w", werr)
				}
			} else {
				text := report
				if render {
					if rendered, rerr := renderMarkdown(report); rerr == nil {
						text = rendered
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Report file path (default: stdout)")
	cmd.Flags().BoolVar(&render, "render", false, "Render the markdown report for the terminal")
	return cmd
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return nil, dataqc.ErrMissingInput
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, err
	}
	return data, nil
}

func renderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}
