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
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var namespacesWithCounts bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		raw, err := newAPIClient(serverURL).Statistics(ctx)
		if err != nil {
			logger.Error("failed to fetch statistics", "error", err)
			os.Exit(1)
		}
		printJSON(json.RawMessage(raw))
	},
}

var namespacesCmd = &cobra.Command{
	Use:   "namespaces",
	Short: "List provider namespaces in the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		resp, err := newAPIClient(serverURL).Namespaces(ctx, namespacesWithCounts)
		if err != nil {
			logger.Error("failed to list namespaces", "error", err)
			os.Exit(1)
		}

		if namespacesWithCounts {
			for _, c := range resp.Counts {
				fmt.Printf("%6d\t%s\n", c.Count, c.Namespace)
			}
			return
		}
		for _, ns := range resp.Namespaces {
			fmt.Println(ns)
		}
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force a full refetch of the alias catalog",
	Run: func(cmd *cobra.Command, args []string) {
		// A cold refresh walks every provider namespace upstream.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		logger.Info("forcing catalog refresh, this can take a few minutes")
		resp, err := newAPIClient(serverURL).Refresh(ctx)
		if err != nil {
			logger.Error("refresh failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("status: %s\n", resp.Status)
		fmt.Printf("aliases: %d across %d namespaces\n",
			resp.Statistics.TotalAliases, resp.Statistics.TotalNamespaces)
	},
}

func init() {
	namespacesCmd.Flags().BoolVar(&namespacesWithCounts, "counts", false,
		"include per-namespace alias counts")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Error("failed to encode output", "error", err)
		os.Exit(1)
	}
}
