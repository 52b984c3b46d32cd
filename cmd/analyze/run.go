package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/arnavshah/double-bubble-api-go/pkg/analyzer"
	"github.com/arnavshah/double-bubble-api-go/pkg/ingest"
	"github.com/arnavshah/double-bubble-api-go/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// fileReport is the outcome of analyzing one input file
type fileReport struct {
	Input   string
	Output  string
	Stats   models.DropStats
	Summary models.Summary
}

// analyzeFiles runs one independent analysis per file, up to limit at once.
// Reports come back in input order.
func analyzeFiles(ctx context.Context, files []string, defaults models.Params, overrides map[string]string, outDir string, limit int) ([]fileReport, error) {
	p := analyzer.ParseParams(overrides, defaults)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	reports := make([]fileReport, len(files))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := analyzeFile(path, p, outDir)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func analyzeFile(path string, p models.Params, outDir string) (fileReport, error) {
	in, err := os.Open(path)
	if err != nil {
		return fileReport{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()

	rows, header, err := ingest.ReadCSV(in)
	if err != nil {
		return fileReport{}, fmt.Errorf("read %s: %w", path, err)
	}

	result := analyzer.NewAnalyzer(p).Run(rows)
	logger.Debug("analyzed file",
		zap.String("file", path),
		zap.String("layout", string(header.Layout)),
		zap.Int("rows", result.Stats.RowsRead),
		zap.Int("dropped", result.Stats.Dropped()),
		zap.Int("flagged", result.Summary.Flagged),
	)

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(outDir, base+"-flagged.csv")
	out, err := os.Create(outPath)
	if err != nil {
		return fileReport{}, fmt.Errorf("create %s: %w", outPath, err)
	}
	if err := analyzer.WriteCSV(out, result.Flagged); err != nil {
		out.Close()
		return fileReport{}, fmt.Errorf("write %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return fileReport{}, fmt.Errorf("close %s: %w", outPath, err)
	}

	return fileReport{
		Input:   path,
		Output:  outPath,
		Stats:   result.Stats,
		Summary: result.Summary,
	}, nil
}

func printReports(w io.Writer, reports []fileReport) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tROWS\tDROPPED\tSHIFTS\tDOUBLE BUBBLES\tDEVIATIONS\tFLAGGED\tSAVINGS\tEXPORT")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f\t%s\n",
			r.Input,
			r.Stats.RowsRead,
			r.Stats.Dropped(),
			r.Summary.Shifts,
			r.Summary.DoubleBubbles,
			r.Summary.Deviations,
			r.Summary.Flagged,
			r.Summary.TotalSavings,
			r.Output,
		)
	}
	tw.Flush()
}
