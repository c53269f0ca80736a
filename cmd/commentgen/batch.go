package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mind-engage/mindengage-comments/internal/export"
	"github.com/mind-engage/mindengage-comments/internal/report"
	"github.com/mind-engage/mindengage-comments/internal/session"
)

var (
	batchInput  string
	batchOutput string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate comments for a class list and export the report",
	Long: `Reads a YAML list of students, generates one comment per student in
order and writes the accumulated report. The output extension picks the
format (.docx or .txt).

Each list item has the fields name, gender, grade, attitude, reading,
writing, reading_target, writing_target and optionally addendum.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "YAML file with the student list")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", export.FormatDOCX.FileName(""), "report file (.docx or .txt)")
	_ = batchCmd.MarkFlagRequired("input")
}

func readStudents(path string) ([]report.StudentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var recs []report.StudentRecord
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(batchOutput), "."))
	if err != nil {
		return err
	}
	recs, err := readStudents(batchInput)
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sess := session.New()
	for i, rec := range recs {
		next, res, err := svc.Submit(ctx, sess, rec)
		if err != nil {
			return fmt.Errorf("student %d (%q): %w", i+1, rec.Name, err)
		}
		sess = next
		logger.Debug("generated", zap.String("name", rec.Name), zap.Int("length", res.Length))
	}

	doc, err := svc.Export(ctx, sess, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(batchOutput, doc.Data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d comments to %s\n", doc.Paragraphs, batchOutput)
	return nil
}
