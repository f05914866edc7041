// =============================================================================
// XML to CSV Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// converts a single file:
//
//   xml2csv <xml_path> [<csv_path>]
//
// COBRA CLI STRUCTURE:
//   rootCmd (xml2csv <xml_path> [<csv_path>])
//   ├── batchCmd   (xml2csv batch)
//   ├── configCmd  (xml2csv config)
//   └── versionCmd (xml2csv version)
//
// EXIT BEHAVIOR:
//   - No path argument: usage is printed, exit status 1
//   - Source missing or not a file: a message is printed, exit status 0
//   - Malformed XML or unwritable destination: error printed, exit status 1
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/xml-to-csv-conversion/internal/config"
	"github.com/ginjaninja78/xml-to-csv-conversion/internal/converter"
	"github.com/ginjaninja78/xml-to-csv-conversion/internal/logging"
)

// =============================================================================
// GLOBAL OPTIONS
// =============================================================================

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	// cfgFile is the optional configuration file (--config).
	cfgFile string

	// verbose enables debug logging (--verbose).
	verbose bool

	// format overrides output.format (--format).
	format string

	// delimiter overrides csv.delimiter (--delimiter).
	delimiter string
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "xml2csv <xml_path> [<csv_path>]",
		Short: "XML to CSV Converter - Flatten an XML item list into a CSV table",
		Long: `xml2csv converts a flat XML document (a root element holding a list of
sibling item elements) into a CSV file. Columns are inferred from the union of
attribute names and child element tags over all items, sorted, and preceded by
a 1-based Sequence column.

When <csv_path> is omitted the output is written next to the source with its
extension replaced by .csv (or .xlsx with --format xlsx).

Example Usage:
  xml2csv data/items.xml                   # writes data/items.csv
  xml2csv data/items.xml /tmp/out.csv      # explicit destination
  xml2csv --format xlsx data/items.xml     # writes data/items.xlsx
  xml2csv batch --input-dir ./input        # convert a whole directory`,

		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing <xml_path> argument")
			}
			if len(args) > 2 {
				return fmt.Errorf("accepts at most 2 arguments, received %d", len(args))
			}
			return nil
		},

		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			// Argument errors above print usage; runtime errors do not.
			cmd.SilenceUsage = true

			var dst string
			if len(args) > 1 {
				dst = args[1]
			}
			return runConvert(cmd, opts, args[0], dst)
		},
	}

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "Path to an optional YAML configuration file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output for debugging")
	flags.StringVar(&opts.format, "format", "", `Output format: "csv" or "xlsx" (default from config, "csv")`)
	flags.StringVar(&opts.delimiter, "delimiter", "", `CSV field delimiter (default from config, ",")`)

	rootCmd.AddCommand(
		newBatchCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// CONVERSION
// =============================================================================

// runConvert converts one file. A missing source is reported on stdout and
// is not an error.
func runConvert(cmd *cobra.Command, opts *rootOptions, src, dst string) error {
	cfg, log, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	convOpts, err := converter.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	_, err = converter.New(src, dst, convOpts).WithLogger(log).Run()
	if errors.Is(err, converter.ErrInputNotFound) {
		fmt.Fprintf(cmd.OutOrStdout(), "Error: The file '%s' does not exist or is not a file.\n", src)
		return nil
	}
	return err
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// loadConfig loads the configuration, applies flag overrides and builds the
// logger. Flags win over the file and the environment.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("delimiter") {
		cfg.CSV.Delimiter = opts.delimiter
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logging.New(cmd.ErrOrStderr(), level), nil
}
