/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/wordpicker/internal/app"
	"github.com/eslsoft/wordpicker/internal/usecase/backup"
)

const (
	backupExportOutputKey = "backup.export.output"
	backupExportGzipKey   = "backup.export.gzip"
	backupImportInputKey  = "backup.import.input"
	backupImportGzipKey   = "backup.import.gzip"
	backupImportForceKey  = "backup.import.ignore_schema_hash"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up or restore the collection as NDJSON",
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every word with its timestamp to an NDJSON backup",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()

		container, cleanup, err := app.Initialize()
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		outputPath := viper.GetString(backupExportOutputKey)
		gzipEnabled := viper.GetBool(backupExportGzipKey)
		if outputPath == "" {
			outputPath = defaultBackupFilename(gzipEnabled)
		}
		if !gzipEnabled && outputPath != "-" && strings.HasSuffix(strings.ToLower(outputPath), ".gz") {
			gzipEnabled = true
		}

		var (
			writer   = cmd.OutOrStdout()
			closeFns []func() error
		)

		if outputPath != "-" {
			if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			file, openErr := os.Create(outputPath)
			if openErr != nil {
				return fmt.Errorf("create backup file: %w", openErr)
			}
			writer = file
			closeFns = append(closeFns, file.Close)
		}

		if gzipEnabled {
			gz := gzip.NewWriter(writer)
			writer = gz
			closeFns = append([]func() error{gz.Close}, closeFns...)
		}

		defer func() {
			for _, closer := range closeFns {
				if cerr := closer(); cerr != nil && err == nil {
					err = cerr
				}
			}
		}()

		progress := newCLIProgress(cmd.ErrOrStderr(), "export")
		if err := container.Backup.Export(ctx, writer, backup.WithProgressReporter(progress)); err != nil {
			return fmt.Errorf("export backup: %w", err)
		}

		if outputPath == "-" {
			cmd.PrintErrln("Backup written to standard output")
		} else {
			cmd.PrintErrf("Backup written to %s\n", outputPath)
		}
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Restore words from an NDJSON backup, skipping ones already collected",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()

		inputPath := viper.GetString(backupImportInputKey)
		gzipEnabled := viper.GetBool(backupImportGzipKey)
		if inputPath == "" {
			return fmt.Errorf("specify a backup file with --input, or - for standard input")
		}
		if !gzipEnabled && inputPath != "-" && strings.HasSuffix(strings.ToLower(inputPath), ".gz") {
			gzipEnabled = true
		}

		container, cleanup, err := app.Initialize()
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		var (
			reader  = cmd.InOrStdin()
			closers []func() error
		)

		if inputPath != "-" {
			file, openErr := os.Open(filepath.Clean(inputPath))
			if openErr != nil {
				return fmt.Errorf("open backup file: %w", openErr)
			}
			reader = file
			closers = append(closers, file.Close)
		}

		if gzipEnabled {
			gzr, gzErr := gzip.NewReader(reader)
			if gzErr != nil {
				for _, closer := range closers {
					_ = closer()
				}
				return fmt.Errorf("open gzip stream: %w", gzErr)
			}
			reader = gzr
			closers = append([]func() error{gzr.Close}, closers...)
		}

		defer func() {
			for _, closer := range closers {
				if cerr := closer(); cerr != nil && err == nil {
					err = cerr
				}
			}
		}()

		importOpts := []backup.ImportOption{
			backup.WithImportProgressReporter(newCLIProgress(cmd.ErrOrStderr(), "import")),
		}
		if viper.GetBool(backupImportForceKey) {
			importOpts = append(importOpts, backup.WithIgnoreSchemaHash())
		}

		result, err := container.Backup.Import(ctx, reader, importOpts...)
		if err != nil {
			return fmt.Errorf("import backup: %w", err)
		}

		cmd.Printf("Import finished: %d added, %d already collected\n", result.Added, result.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd, backupImportCmd)

	backupExportCmd.Flags().StringP("output", "o", "", "backup file path, - for standard output")
	backupExportCmd.Flags().Bool("gzip", false, "gzip the output")
	bindFlagToViper(backupExportOutputKey, backupExportCmd.Flags().Lookup("output"))
	bindFlagToViper(backupExportGzipKey, backupExportCmd.Flags().Lookup("gzip"))

	backupImportCmd.Flags().StringP("input", "i", "", "backup file path, - for standard input")
	backupImportCmd.Flags().Bool("gzip", false, "input is gzip compressed")
	backupImportCmd.Flags().Bool("ignore-schema-hash", false, "import backups taken from a different schema revision")
	bindFlagToViper(backupImportInputKey, backupImportCmd.Flags().Lookup("input"))
	bindFlagToViper(backupImportGzipKey, backupImportCmd.Flags().Lookup("gzip"))
	bindFlagToViper(backupImportForceKey, backupImportCmd.Flags().Lookup("ignore-schema-hash"))
}

func defaultBackupFilename(gzipEnabled bool) string {
	ts := time.Now().UTC().Format("20060102-150405")
	filename := fmt.Sprintf("wordpicker-backup-%s.jsonl", ts)
	if gzipEnabled {
		filename += ".gz"
	}
	return filename
}

type cliProgress struct {
	out         io.Writer
	verb        string
	totals      map[string]int
	counts      map[string]int
	lastPrinted map[string]int
	steps       map[string]int
}

func newCLIProgress(out io.Writer, verb string) *cliProgress {
	return &cliProgress{
		out:         out,
		verb:        verb,
		totals:      make(map[string]int),
		counts:      make(map[string]int),
		lastPrinted: make(map[string]int),
		steps:       make(map[string]int),
	}
}

func (p *cliProgress) StartTable(table string, total int) {
	if total < 0 {
		total = 0
	}
	p.totals[table] = total
	p.counts[table] = 0
	p.lastPrinted[table] = 0
	p.steps[table] = progressStep(total)
	fmt.Fprintf(p.out, "Starting %s of %s (%d rows)\n", p.verb, table, total)
}

func (p *cliProgress) Increment(table string, delta int) {
	if delta <= 0 {
		return
	}
	current := p.counts[table] + delta
	p.counts[table] = current
	total := p.totals[table]
	step := p.steps[table]
	if step <= 0 {
		step = 1
	}
	last := p.lastPrinted[table]
	if current == total || last == 0 || current-last >= step {
		p.printProgress(table, current, total)
		p.lastPrinted[table] = current
	}
}

func (p *cliProgress) FinishTable(table string) {
	current := p.counts[table]
	total := p.totals[table]
	if current != p.lastPrinted[table] {
		p.printProgress(table, current, total)
	}
	if total > 0 {
		fmt.Fprintf(p.out, "Finished %s of %s: %d/%d rows\n", p.verb, table, current, total)
	} else {
		fmt.Fprintf(p.out, "Finished %s of %s: %d rows\n", p.verb, table, current)
	}
	delete(p.counts, table)
	delete(p.totals, table)
	delete(p.lastPrinted, table)
	delete(p.steps, table)
}

func (p *cliProgress) printProgress(table string, current, total int) {
	if total > 0 {
		fmt.Fprintf(p.out, "%s %s: %d/%d\n", p.verb, table, current, total)
	} else {
		fmt.Fprintf(p.out, "%s %s: %d rows processed\n", p.verb, table, current)
	}
}

func progressStep(total int) int {
	if total <= 0 {
		return 1000
	}
	step := total / 20
	if step < 1 {
		step = 1
	}
	if step > 1000 {
		step = 1000
	}
	return step
}
