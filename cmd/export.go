package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/imoveis-cli/internal/export"
	"github.com/sells-group/imoveis-cli/internal/filter"
)

var (
	exportRegion  string
	exportFile    string
	exportOut     string
	exportFilters filterFlags
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write ranked listings to a CSV or XLSX file",
	Example: `  imoveis-cli export --region RJ --out rj.csv
  imoveis-cli export --region SP --min-discount 40 --out sp.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("listings"); err != nil {
			return err
		}
		if exportOut == "" {
			return eris.New("--out is required")
		}
		ext := strings.ToLower(filepath.Ext(exportOut))
		if ext != ".csv" && ext != ".xlsx" {
			return eris.Errorf("unsupported export extension %q (want .csv or .xlsx)", ext)
		}
		f, err := exportFilters.filters()
		if err != nil {
			return err
		}

		p, err := initPipeline(cfg)
		if err != nil {
			return err
		}
		res, err := loadResult(cmd.Context(), p, exportRegion, exportFile)
		if err != nil {
			return reportFailure(cmd, err)
		}
		ranked := filter.Apply(res.Listings, f)

		links := linksFromConfig(cfg)
		err = writeExportFile(exportOut, func(w io.Writer) error {
			if ext == ".xlsx" {
				return export.WriteXLSX(w, ranked, links)
			}
			return export.WriteCSV(w, ranked, links)
		})
		if err != nil {
			return err
		}

		zap.L().Info("export written",
			zap.String("region", res.Region),
			zap.String("path", exportOut),
			zap.Int("listings", len(ranked)),
		)
		cmd.Printf("Wrote %d listings to %s\n", len(ranked), exportOut)
		return nil
	},
}

// writeExportFile creates path and fills it with write. A failed write or
// close leaves no file behind.
func writeExportFile(path string, write func(io.Writer) error) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "close %s", path)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return write(out)
}

func init() {
	exportCmd.Flags().StringVar(&exportRegion, "region", "", "two-letter region code (e.g. SP)")
	exportCmd.Flags().StringVar(&exportFile, "file", "", "parse a local copy of the feed instead of downloading")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path ending in .csv or .xlsx")
	exportFilters.register(exportCmd)
	rootCmd.AddCommand(exportCmd)
}
