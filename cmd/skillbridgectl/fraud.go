// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package main

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/skillbridge/internal/fraud"
	"github.com/tomtom215/skillbridge/internal/logging"
	"github.com/tomtom215/skillbridge/internal/validation"
)

func newFraudCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fraud",
		Short: "Fraud scoring",
	}
	cmd.AddCommand(newFraudScoreCmd())
	return cmd
}

func newFraudScoreCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one activity record or a JSON array of them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, batch, err := readActivities(cmd, input)
			if err != nil {
				return err
			}
			scorer, err := fraud.NewDefaultScorer(nil, logging.WithComponent("fraud"))
			if err != nil {
				return err
			}

			out := make([]*fraud.Assessment, 0, len(records))
			for i := range records {
				a, err := scorer.Assess(cmd.Context(), &records[i])
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				out = append(out, a)
			}
			if !batch {
				return writeJSON(cmd, out[0])
			}
			return writeJSON(cmd, out)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "activity JSON file, - for stdin (required)")
	mustMarkRequired(cmd, "input")
	return cmd
}

// readActivities accepts a single object or an array. batch reports which
// one was given so the output keeps the same shape.
func readActivities(cmd *cobra.Command, path string) (records []fraud.Activity, batch bool, err error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, false, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, true, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		if len(records) == 0 {
			return nil, true, fmt.Errorf("%s holds no records", path)
		}
		batch = true
	} else {
		var one fraud.Activity
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, false, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		records = []fraud.Activity{one}
	}
	for i := range records {
		if verr := validation.ValidateStruct(&records[i]); verr != nil {
			return nil, batch, fmt.Errorf("record %d: %w", i, verr)
		}
	}
	return records, batch, nil
}
