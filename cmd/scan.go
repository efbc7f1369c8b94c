package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/synthlab/recscan/internal/dump"
	"github.com/synthlab/recscan/internal/report"
	"github.com/synthlab/recscan/internal/typesys"
	"github.com/synthlab/recscan/record"
)

var (
	scanJSONOutput bool
	outPath        string
)

var scanCmd = &cobra.Command{
	Use:   "scan [dumps...]",
	Short: "Classify the members of record dumps",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide record dump paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		reports, err := runScan(ctx, logger, args)
		if err != nil {
			logger.Error("Error scanning dumps", zap.Error(err))
			os.Exit(1)
		}
		printReports(logger, reports, scanJSONOutput, outPath)
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSONOutput, "json", false, "Output verdicts in JSON format")
	scanCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
}

func runScan(ctx context.Context, logger *zap.Logger, paths []string) ([]report.RecordReport, error) {
	var bar *progressbar.ProgressBar
	if len(paths) > 1 {
		bar = progressbar.Default(int64(len(paths)), "scanning")
	}

	reports := make([]report.RecordReport, 0, len(paths))
	for _, path := range paths {
		rep, err := scanDump(ctx, path)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing dump", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		reports = append(reports, rep)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return reports, nil
}

func scanDump(ctx context.Context, path string) (report.RecordReport, error) {
	d, err := dump.Load(path)
	if err != nil {
		return report.RecordReport{}, err
	}

	c, err := record.New(ctx, d.Record, typesys.DefaultTypeSystem{}, d)
	if err != nil {
		return report.RecordReport{}, fmt.Errorf("analyzing %s: %w", path, err)
	}

	rep := report.RecordReport{
		File:   path,
		Record: d.Record.Type.String(),
	}
	_, rep.OrderKnown = c.MemberOrder()

	for _, p := range d.Record.Properties {
		rep.Members = append(rep.Members, report.MemberVerdict{
			Name:      p.Name,
			Kind:      "property",
			Generated: c.PropertyIsGenerated(p),
		})
	}
	for _, m := range d.Record.Methods {
		generated, err := c.MethodIsGenerated(ctx, m)
		if err != nil {
			return report.RecordReport{}, fmt.Errorf("classifying %s: %w", m.Name, err)
		}
		rep.Members = append(rep.Members, report.MemberVerdict{
			Name:      m.Name,
			Kind:      "method",
			Generated: generated,
		})
	}
	return rep, nil
}

func printReports(logger *zap.Logger, reports []report.RecordReport, isJSON bool, jsonOutput string) {
	if !isJSON {
		for _, rep := range reports {
			fmt.Println(report.Render(rep))
		}
		return
	}

	d, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		logger.Error("Error marshalling reports to JSON", zap.Error(err))
		return
	}
	if jsonOutput == "" {
		fmt.Println(string(d))
		return
	}
	f, err := os.Create(jsonOutput)
	if err != nil {
		logger.Error("Error creating JSON output file", zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := f.Write(d); err != nil {
		logger.Error("Error writing JSON output", zap.Error(err))
	}
}
