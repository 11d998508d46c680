package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/caption-digest/internal/httpapi"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

var summaryDocx string

var summarizeCmd = &cobra.Command{
	Use:   "summarize <url>",
	Short: "Print an LLM summary of a video's transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		sum, err := a.proc.Summarize(cmd.Context(), args[0])
		if err != nil {
			return describe(err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), sum.Text)

		if summaryDocx != "" {
			if err := summarizer.ExportDocx(sum.VideoID, sum.Text, summaryDocx); err != nil {
				return fmt.Errorf("export docx: %w", err)
			}
			a.log.Info(cmd.Context(), "Summary written to %s", summaryDocx)
		}
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summaryDocx, "docx", "", "Also write the summary to this .docx file")
}

// describe turns an unavailable transcript into the same message the API
// returns, keeping the per-strategy detail.
func describe(err error) error {
	var unavailable *transcript.UnavailableError
	if errors.As(err, &unavailable) {
		return fmt.Errorf("%s (%w)", httpapi.NoCaptionsMessage, err)
	}
	return err
}
