// =============================================================================
// XML to CSV Converter - Batch Command
// =============================================================================
//
// This file defines the 'batch' command, which converts every XML file in an
// input directory.
//
// COMMAND USAGE:
//   xml2csv batch [flags]
//
// FLAGS:
//   --input-dir   : Directory scanned for *.xml files
//   --output-dir  : Directory that receives the converted files
//   --archive     : Move each converted source to the input archive directory
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Discover XML files in the input directory
//   3. For each file, in name order:
//      a. Generate the output file name
//      b. Convert the file
//      c. Archive the source (if enabled)
//   4. Print a summary
//
// Files are converted one at a time. A failure in one file is reported and
// the batch continues; the command exits non-zero if any file failed.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/xml-to-csv-conversion/internal/converter"
	"github.com/ginjaninja78/xml-to-csv-conversion/pkg/utils"
)

// batchOptions holds the local flags of the batch command.
type batchOptions struct {
	inputDir  string
	outputDir string
	archive   bool
}

// =============================================================================
// BATCH COMMAND DEFINITION
// =============================================================================

func newBatchCmd(root *rootOptions) *cobra.Command {
	opts := &batchOptions{}

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Convert every XML file in a directory",
		Long: `The batch command scans the input directory for *.xml files and converts
each of them into the output directory, using the same column inference as a
single conversion.

On success:
  - The converted file is placed in the output directory
  - With --archive, the source is moved to the input archive directory

On error:
  - The error is reported and the source stays where it is
  - Processing continues with the next file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runBatch(cmd, root, opts)
		},
	}

	batchCmd.Flags().StringVar(&opts.inputDir, "input-dir", "", "Directory scanned for *.xml files (default from config, ./input)")
	batchCmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for converted files (default from config, ./output)")
	batchCmd.Flags().BoolVar(&opts.archive, "archive", false, "Move converted sources to the input archive directory")

	return batchCmd
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runBatch(cmd *cobra.Command, root *rootOptions, opts *batchOptions) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, log, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("input-dir") {
		cfg.Batch.InputDir = opts.inputDir
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.Batch.OutputDir = opts.outputDir
	}
	if cmd.Flags().Changed("archive") {
		cfg.Batch.ArchiveInputs = opts.archive
	}

	convOpts, err := converter.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	fm := utils.NewFileManager(cfg.Batch.InputDir, cfg.Batch.OutputDir, cfg.Batch.InputArchiveDir, cfg.Batch.ArchiveInputs)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	inputFiles, err := fm.DiscoverInputFiles("*.xml")
	if err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}

	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No XML files found in the input directory.")
		return nil
	}

	log.Info("Found %d file(s) to convert in %s", len(inputFiles), cfg.Batch.InputDir)

	// =========================================================================
	// STEP 3: CONVERT FILES
	// =========================================================================

	var successCount, errorCount, totalRows int

	for _, file := range inputFiles {
		name := utils.GenerateOutputFileName(cfg.Batch.OutputNameFormat, file, cfg.Extension())
		dst := filepath.Join(cfg.Batch.OutputDir, name)

		result, err := converter.New(file, dst, convOpts).WithLogger(log).Run()
		if err != nil {
			errorCount++
			fmt.Fprintf(out, "  ✗ %s: %v\n", filepath.Base(file), err)
			continue
		}

		successCount++
		totalRows += result.Items
		fmt.Fprintf(out, "  ✓ %s -> %s (%d rows)\n", filepath.Base(file), result.OutputFile, result.Items)

		if _, err := fm.ArchiveInputFile(file); err != nil {
			// The conversion itself succeeded; only report the archive failure.
			log.Warn("Failed to archive %s: %v", file, err)
		}
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	fmt.Fprintln(out, "\n=== Conversion Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", len(inputFiles))
	fmt.Fprintf(out, "Successful:      %d\n", successCount)
	fmt.Fprintf(out, "Errors:          %d\n", errorCount)
	fmt.Fprintf(out, "Rows written:    %d\n", totalRows)
	fmt.Fprintf(out, "Time elapsed:    %s\n", time.Since(startTime).Round(time.Millisecond))

	if errorCount > 0 {
		return fmt.Errorf("%d of %d file(s) failed", errorCount, len(inputFiles))
	}
	return nil
}
