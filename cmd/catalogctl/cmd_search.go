// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	searchNamespace string
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Search policy aliases by keyword",
	Long: `Searches the cached alias catalog. Every term must match an
alias's namespace, resource type, name, or default path.

Examples:
  catalogctl search virtual machine
  catalogctl search sku --namespace Microsoft.Compute
  catalogctl search --namespace Microsoft.Storage`,
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")
		if query == "" && searchNamespace == "" {
			logger.Error("nothing to search for: pass terms or --namespace")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		resp, err := newAPIClient(serverURL).Search(ctx, query, searchNamespace)
		if err != nil {
			logger.Error("search failed", "error", err)
			os.Exit(1)
		}

		if searchJSON {
			printJSON(resp)
			return
		}
		for _, a := range resp.Aliases {
			path := ""
			if a.DefaultPath != nil {
				path = *a.DefaultPath
			}
			fmt.Printf("%s\t%s\t%s\n", a.AliasName, a.ResourceType, path)
		}
		fmt.Printf("\n%d aliases (%d ms)\n", resp.Count, resp.QueryTimeMs)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchNamespace, "namespace", "",
		"restrict results to one provider namespace")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false,
		"output as JSON")
}
