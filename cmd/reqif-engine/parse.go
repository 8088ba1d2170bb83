// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [paths...]",
	Short: "Parse ReqIF documents and list the extracted requirements",
	Long: `Parse reads the named .reqif or .reqifz documents (or discovers them
under the current directory when none are given) and prints the
normalized requirement collection. Use --json for the full records.`,
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	reqs, err := collectRequirements(args, parserConfigFromFlags(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reqs)
	}

	for _, req := range reqs {
		title := req.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-60s  %d attrs, %d links, %d children\n",
			req.ID, title, req.Attributes.Len(), len(req.Links), len(req.Children))
	}
	fmt.Fprintf(os.Stdout, "\n%d requirements\n", len(reqs))
	return nil
}

func init() {
	parseCmd.Flags().Bool("keep-extensions", false, "preserve unrecognized vendor XML blocks verbatim")
	parseCmd.Flags().Bool("decode-attachments", false, "decode embedded base64 attachments")
	parseCmd.Flags().Bool("json", false, "output the full records as JSON")

	rootCmd.AddCommand(parseCmd)
}
