package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Ingest a PDF and answer a question about it",
	Long: `The run command executes the whole pipeline: it loads the PDF, splits it
into chunks, embeds and stores every chunk while printing progress, then
retrieves the most similar chunks for the query and prints the answer.`,
	Args: cobra.MaximumNArgs(1),
	RunE: RunPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("query", "q", "", "question to ask about the document")
	runCmd.Flags().IntP("top-k", "k", 0, "number of chunks used as context")
	runCmd.Flags().Bool("reset", false, "drop the collection before ingesting")
}

func RunPipeline(cmd *cobra.Command, args []string) error {
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

	if _, err := svc.ImportFile(ctx, path, reporter.Report); err != nil {
		return err
	}

	answer, err := svc.Ask(ctx, stringFlag(cmd, "query", "query"), intFlag(cmd, "top-k", "retrieval.top_k"))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer.Response)
	return nil
}
