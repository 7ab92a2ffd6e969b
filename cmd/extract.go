package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/takeoff-cli/internal/provider"
)

var (
	extractOutput  string
	extractEnhance bool
	extractStore   bool
	extractVocab   string
)

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Extract takeoff items from a single document",
	Long:  "Reads a PDF, XLSX, or pre-extracted JSON pages file and emits the structured extraction result as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, _, err := initService(extractVocab, extractEnhance, os.Stderr)
		if err != nil {
			return err
		}

		prov, err := provider.ForPath(args[0], cfg.Extract.PdfToTextPath)
		if err != nil {
			return err
		}

		result, err := svc.Extract(ctx, prov)
		if err != nil {
			return eris.Wrapf(err, "extract %s", args[0])
		}

		if extractStore {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
			run, err := st.CreateRun(ctx, args[0])
			if err != nil {
				return err
			}
			if err := st.UpdateRunResult(ctx, run.ID, result); err != nil {
				return err
			}
			zap.L().Info("run stored", zap.String("run_id", run.ID))
		}

		out := os.Stdout
		if extractOutput != "" {
			f, err := os.Create(extractOutput)
			if err != nil {
				return eris.Wrapf(err, "create output %s", extractOutput)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "write result JSON to file instead of stdout")
	extractCmd.Flags().BoolVar(&extractEnhance, "enhance", false, "run the Claude enhancement pass")
	extractCmd.Flags().BoolVar(&extractStore, "store", false, "persist the run to the configured store")
	extractCmd.Flags().StringVar(&extractVocab, "vocabulary", "", "fixture vocabulary YAML file (default from config)")
	rootCmd.AddCommand(extractCmd)
}
