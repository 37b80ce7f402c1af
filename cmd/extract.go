// -- cmd/extract.go --
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesaworks/smartpost/internal/extractor"
	"github.com/mesaworks/smartpost/internal/ingest"
	"github.com/mesaworks/smartpost/internal/observability"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		text   string
		file   string
		output string
		poster string
	)

	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Extracts a draft job record from free-form job text",
		Long: `Extracts a structured job record draft from pasted text and/or a job
document (.txt/.md/.pdf/.docx). The draft is best-effort output of the
extraction model: review and edit it before handing it to "post".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			var document string
			if file != "" {
				extracted, err := ingest.ReadFile(file)
				if err != nil {
					return err
				}
				document = extracted
			}

			raw := ingest.Combine(text, document)
			if raw == "" {
				return fmt.Errorf("nothing to extract: provide --text and/or --file")
			}

			record, err := extractor.NewExtractor(a.cfg.Extractor, logger).Extract(ctx, raw)
			if err != nil {
				return err
			}
			if poster != "" {
				record.PostedBy = poster
			}

			out, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return fmt.Errorf("could not encode draft: %w", err)
			}

			if output == "" {
				fmt.Println(string(out))
				return nil
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("could not write draft: %w", err)
			}
			logger.Info("Draft written.", zap.String("path", output))
			fmt.Printf("Draft written to %s. Review it, then run: smartpost post --job-file %s\n", output, output)
			return nil
		},
	}

	extractCmd.Flags().StringVar(&text, "text", "", "Pasted job text")
	extractCmd.Flags().StringVar(&file, "file", "", "Job document to extract text from")
	extractCmd.Flags().StringVarP(&output, "output", "o", "", "Write the draft JSON to a file instead of stdout")
	extractCmd.Flags().StringVar(&poster, "posted-by", "", "Operator name to stamp on the draft")

	return extractCmd
}
