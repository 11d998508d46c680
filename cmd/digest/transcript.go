package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
)

var (
	copyTranscript bool
	transcriptDocx string
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript <url>",
	Short: "Print the plain-text transcript of a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		tr, err := a.proc.Transcript(cmd.Context(), args[0])
		if err != nil {
			return describe(err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), tr.Text)

		if copyTranscript {
			if err := clipboard.WriteAll(tr.Text); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			a.log.Info(cmd.Context(), "Transcript copied to clipboard (%d chars)", len(tr.Text))
		}
		if transcriptDocx != "" {
			if err := summarizer.ExportTranscriptDocx(tr.VideoID, tr.Text, transcriptDocx); err != nil {
				return fmt.Errorf("export docx: %w", err)
			}
			a.log.Info(cmd.Context(), "Transcript written to %s", transcriptDocx)
		}
		return nil
	},
}

func init() {
	transcriptCmd.Flags().BoolVar(&copyTranscript, "copy", false, "Copy the transcript to the clipboard")
	transcriptCmd.Flags().StringVar(&transcriptDocx, "docx", "", "Also write the transcript to this .docx file")
}
