// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the reqif-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/reqif-engine/internal/reqif"
	"github.com/pdiddy/reqif-engine/internal/secrets"
	"github.com/pdiddy/reqif-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedToken holds the GitHub token loaded from .secrets/ at startup.
var loadedToken string

// rootCmd is the base command for the reqif-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "reqif-engine",
	Short: "Extract requirements from ReqIF documents and sync them to GitHub",
	Long: `reqif-engine parses ReqIF and ReqIFz requirement-interchange documents
into a normalized requirement collection, and pushes that collection to
GitHub issues, one issue per requirement.

Each pipeline stage is a subcommand: parse inspects documents, export
writes the collection to YAML or JSON, and sync mirrors it onto a GitHub
repository's issues.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		token, err := secrets.GitHubToken(".secrets/")
		if err != nil {
			return err
		}
		loadedToken = token
		if token != "" {
			fmt.Fprintf(os.Stderr, "Loaded secret: %s\n", secrets.GitHubTokenFile)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./reqif-engine.yaml or ~/.config/reqif-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("reqif-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "reqif-engine"))
		}
	}

	viper.SetEnvPrefix("REQIF_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// collectRequirements parses every document named by args into one
// collection. Without args it honors the REQIF_FILE override, then falls
// back to recursive discovery under the current directory. Ids that
// repeat across documents keep their first occurrence.
func collectRequirements(args []string, cfg types.ParserConfig) ([]types.Requirement, error) {
	paths := args
	if len(paths) == 0 {
		if override := os.Getenv("REQIF_FILE"); override != "" {
			paths = []string{override}
		} else {
			found, err := reqif.Discover(".")
			if err != nil {
				return nil, err
			}
			paths = found
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .reqif or .reqifz files found")
	}

	var (
		all  []types.Requirement
		seen = make(map[string]bool)
	)
	for _, path := range paths {
		reqs, err := reqif.Parse(path, cfg)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "parsed %s: %d requirements\n", path, len(reqs))
		for _, req := range reqs {
			if seen[req.ID] {
				continue
			}
			seen[req.ID] = true
			all = append(all, req)
		}
	}
	return all, nil
}

func parserConfigFromFlags(cmd *cobra.Command) types.ParserConfig {
	keepExt, _ := cmd.Flags().GetBool("keep-extensions")
	decodeAtt, _ := cmd.Flags().GetBool("decode-attachments")
	return types.ParserConfig{
		KeepExtensions:    keepExt,
		DecodeAttachments: decodeAtt,
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
