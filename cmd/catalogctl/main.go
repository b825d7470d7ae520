// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// catalogctl is the command-line companion of the policy catalog
// service. It talks to a running instance over HTTP.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/policy-catalog/pkg/logging"
)

var (
	serverURL string
	logLevel  string

	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Query a running policy catalog service",
	Long: `catalogctl talks to the policy catalog HTTP API.

The server address comes from --server or the CATALOG_SERVER environment
variable (default http://localhost:12310).

Examples:
  catalogctl health
  catalogctl stats
  catalogctl search virtual machine sku
  catalogctl search sku --namespace Microsoft.Compute
  catalogctl namespaces --counts
  catalogctl refresh`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(logging.Config{
			Level:   logging.ParseLevel(logLevel),
			Service: "catalogctl",
		})
		if serverURL == "" {
			serverURL = os.Getenv("CATALOG_SERVER")
		}
		if serverURL == "" {
			serverURL = "http://localhost:12310"
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"base URL of the policy catalog service")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"minimum log level (debug, info, warn, error)")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(namespacesCmd)
	rootCmd.AddCommand(refreshCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
