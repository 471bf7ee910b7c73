package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"localrag/src/log"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Load, chunk and store a PDF without asking anything",
	Args:  cobra.MaximumNArgs(1),
	RunE:  RunIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().Bool("reset", false, "drop the collection before ingesting")
}

func RunIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path, err := documentPath(args)
	if err != nil {
		return err
	}

	svc, err := newService(ctx)
	if err != nil {
		return err
	}

	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		if err := svc.Reset(ctx); err != nil {
			return err
		}
	}

	reporter, err := newProgressReporter(viper.GetString("progress.style"), progressWriter(cmd))
	if err != nil {
		return err
	}

	result, err := svc.ImportFile(ctx, path, reporter.Report)
	if err != nil {
		if result != nil {
			log.Info("Ingest stopped early", "inserted", result.Inserted, "chunks", result.Chunks)
		}
		return err
	}

	total, err := svc.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Stored %d chunks from %s in %s (%d entries in %s)\n",
		result.Inserted, path, result.Duration.Round(time.Millisecond), total, svc.Config().Collection)
	return nil
}
