package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-comments/internal/bank"
	"github.com/mind-engage/mindengage-comments/internal/db"
)

var (
	bankGrade string
	bankFile  string
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "Inspect, check and import sentence banks",
}

var banksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List grade levels and bank coverage",
	Args:  cobra.NoArgs,
	RunE:  runBanksList,
}

var banksShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print one grade's bank as YAML",
	Args:  cobra.NoArgs,
	RunE:  runBanksShow,
}

var banksCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report missing (category, band) entries",
	Long: `Loads the banks (built-in, or --dir layered over them) and lists every
category and band a comment could ask for but the bank cannot serve. Exits
non-zero when any grade is incomplete.`,
	Args: cobra.NoArgs,
	RunE: runBanksCheck,
}

var banksImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Store a YAML bank in the database",
	Long: `Validates a YAML bank and writes it to the database named by DB_DRIVER
and DB_DSN, replacing any bank already stored for that grade. The server
serves it when BANK_SOURCE=db.`,
	Args: cobra.NoArgs,
	RunE: runBanksImport,
}

func init() {
	banksShowCmd.Flags().StringVar(&bankGrade, "grade", bank.Year7.String(), "grade level")
	banksImportCmd.Flags().StringVar(&bankFile, "file", "", "YAML bank file")
	_ = banksImportCmd.MarkFlagRequired("file")

	banksCmd.AddCommand(banksListCmd, banksShowCmd, banksCheckCmd, banksImportCmd)
}

func runBanksList(cmd *cobra.Command, args []string) error {
	src, err := banks()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GRADE\tKEY\tOPENERS\tCLOSERS\tMISSING")
	for _, g := range bank.Grades() {
		b, err := src.Bank(cmd.Context(), g)
		if errors.Is(err, bank.ErrBankNotFound) {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\tno bank\n", g, g.Key())
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", g, g.Key(), len(b.Openers), len(b.Closers), len(b.Missing()))
	}
	return tw.Flush()
}

func runBanksShow(cmd *cobra.Command, args []string) error {
	g, err := bank.ParseGradeLevel(bankGrade)
	if err != nil {
		return err
	}
	src, err := banks()
	if err != nil {
		return err
	}
	b, err := src.Bank(cmd.Context(), g)
	if err != nil {
		return err
	}
	return bank.Encode(cmd.OutOrStdout(), b)
}

func runBanksCheck(cmd *cobra.Command, args []string) error {
	src, err := banks()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	incomplete := 0
	for _, g := range bank.Grades() {
		b, err := src.Bank(cmd.Context(), g)
		if err != nil {
			return err
		}
		missing := b.Missing()
		if len(missing) == 0 {
			fmt.Fprintf(out, "%s: ok\n", g)
			continue
		}
		incomplete++
		for _, m := range missing {
			fmt.Fprintf(out, "%s: missing %s band %d\n", g, m.Category, int(m.Band))
		}
	}
	if incomplete > 0 {
		return fmt.Errorf("%d grade(s) incomplete", incomplete)
	}
	return nil
}

func runBanksImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(bankFile)
	if err != nil {
		return err
	}
	b, err := bank.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", bankFile, err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer dbh.Close()

	if err := bank.NewSQLStore(dbh).PutBank(ctx, b); err != nil {
		return err
	}
	logger.Info("bank imported", zap.String("grade", b.Grade.String()), zap.String("driver", cfg.DBDriver))
	fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%d missing entries)\n", b.Grade, len(b.Missing()))
	return nil
}
