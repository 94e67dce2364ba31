package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"spordle/internal/domain/matching"
)

func newJudgeCommand() *cobra.Command {
	var answer string
	var policyName string

	cmd := &cobra.Command{
		Use:   "judge --answer <title> <guess>...",
		Short: "Score guesses against a title offline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if answer == "" {
				return errors.New("--answer is required")
			}

			policy, err := matching.PolicyByName(policyName)
			if err != nil {
				return err
			}

			judge := matching.NewJudge(policy)
			normalizedAnswer := matching.NormalizeOrFallback(answer)

			rows := make([][]string, 0, len(args))
			for _, guess := range args {
				verdict, err := judge.Judge(guess, answer, normalizedAnswer)
				if err != nil {
					rows = append(rows, []string{guess, "", "", err.Error()})
					continue
				}
				rows = append(rows, []string{
					guess,
					verdict.NormalizedGuess,
					strconv.Itoa(verdict.Score),
					verdictLabel(verdict.Accepted),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Answer: %s (normalized: %q, policy: %s, threshold: %d)\n",
				answer, normalizedAnswer, policy.Name, policy.Threshold(normalizedAnswer))
			fmt.Fprintln(out, renderVerdicts(rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&answer, "answer", "a", "", "Correct song title")
	cmd.Flags().StringVarP(&policyName, "policy", "p", matching.PolicyRatio, "Judge policy (ratio or lenient)")
	return cmd
}

func verdictLabel(accepted bool) string {
	if accepted {
		return "accepted"
	}
	return "rejected"
}

func renderVerdicts(rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Guess", "Normalized", "Score", "Verdict"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1], row[2], row[3]})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
