// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reqif-engine/internal/export"
	"github.com/pdiddy/reqif-engine/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [paths...]",
	Short: "Export the parsed requirement collection to YAML or JSON",
	Long: `Export parses the named documents (or discovers them under the current
directory) and writes the collection to the output directory, ordered by
requirement id so repeated exports are byte-identical.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	reqs, err := collectRequirements(args, parserConfigFromFlags(cmd))
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	format, _ := cmd.Flags().GetString("format")

	path, err := export.Write(reqs, types.ExportConfig{
		OutputDir: outputDir,
		Format:    types.ExportFormat(format),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d requirements to %s\n", len(reqs), path)
	return nil
}

func init() {
	exportCmd.Flags().String("output-dir", "export", "directory for the exported collection")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().Bool("keep-extensions", false, "preserve unrecognized vendor XML blocks verbatim")
	exportCmd.Flags().Bool("decode-attachments", false, "decode embedded base64 attachments")

	rootCmd.AddCommand(exportCmd)
}
