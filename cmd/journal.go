package cmd

import (
	"context"
	"errors"

	"delivery-admin/core/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var journalDate string

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect and export the operation journal",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the journal entries of one day as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := utils.ParseDate(journalDate)
		if err != nil {
			return err
		}

		ctx := context.Background()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()
		if rt.journal == nil {
			return errors.New("journal is not available, check DATABASE_ENABLED and the database settings")
		}

		entries, err := rt.journal.ListByDate(ctx, day)
		if err != nil {
			return err
		}
		return printJSON(entries)
	},
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Upload the journal entries of one day to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := utils.ParseDate(journalDate)
		if err != nil {
			return err
		}

		ctx := context.Background()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()
		if rt.journal == nil {
			return errors.New("journal is not available, check DATABASE_ENABLED and the database settings")
		}

		report, err := rt.journal.Export(ctx, day)
		if err != nil {
			return err
		}
		rt.logger.Info("Journal exported",
			zap.String("date", report.Date),
			zap.String("object", report.Object),
			zap.Int("entries", report.Entries),
			zap.Int64("size", report.Size),
		)
		return nil
	},
}

func init() {
	journalCmd.PersistentFlags().StringVar(&journalDate, "date", "", "Day in YYYY-MM-DD, defaults to today")
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalExportCmd)
	RootCmd.AddCommand(journalCmd)
}
