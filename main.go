// =============================================================================
// XML to CSV Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the xml2csv CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   xml2csv <xml_path> [<csv_path>]  - Convert one XML file
//   xml2csv batch                    - Convert every XML file in a directory
//   xml2csv config                   - Print the effective configuration
//   xml2csv version                  - Display the application version
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/xml-to-csv-conversion/cmd"
)

func main() {
	cmd.Execute()
}
