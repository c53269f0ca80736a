package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-comments/internal/bank"
	"github.com/mind-engage/mindengage-comments/internal/report"
)

var gen struct {
	grade    string
	name     string
	gender   string
	bands    [5]int
	addendum string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one student's comment",
	Long: `Generates a single comment and prints it with its character count.

Example:
  commentgen generate --grade "Year 7" --name Alex --gender male \
    --attitude 90 --reading 85 --writing 80 --reading-target 75 --writing-target 70`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&gen.grade, "grade", bank.Year7.String(), "grade level (Year 7, Year 8)")
	f.StringVar(&gen.name, "name", "", "student name")
	f.StringVar(&gen.gender, "gender", "", "male, female or anything else for they/their")
	f.IntVar(&gen.bands[0], "attitude", 90, "attitude band")
	f.IntVar(&gen.bands[1], "reading", 90, "reading achievement band")
	f.IntVar(&gen.bands[2], "writing", 90, "writing achievement band")
	f.IntVar(&gen.bands[3], "reading-target", 90, "reading target band")
	f.IntVar(&gen.bands[4], "writing-target", 90, "writing target band")
	f.StringVar(&gen.addendum, "addendum", "", "optional attitude next steps appended before truncation")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	grade, err := bank.ParseGradeLevel(gen.grade)
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	rec := report.StudentRecord{
		Name:          gen.name,
		Gender:        gen.gender,
		Grade:         grade,
		Attitude:      bank.ScoreBand(gen.bands[0]),
		Reading:       bank.ScoreBand(gen.bands[1]),
		Writing:       bank.ScoreBand(gen.bands[2]),
		ReadingTarget: bank.ScoreBand(gen.bands[3]),
		WritingTarget: bank.ScoreBand(gen.bands[4]),
		Addendum:      gen.addendum,
	}
	res, err := svc.Preview(cmd.Context(), rec)
	if err != nil {
		return err
	}
	logger.Debug("generated", zap.String("grade", grade.String()), zap.Int("length", res.Length))

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Comment)
	fmt.Fprintf(out, "\nCharacter count (including spaces): %d / %d\n", res.Length, res.Target)
	return nil
}
