package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gisflow/internal/api"
	"gisflow/internal/projection"
	"gisflow/internal/records"
)

func newQCCommand(ctx *commandContext) *cobra.Command {
	var user string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "qc",
		Short: "List Fabric entries awaiting a quality check",
		Long: "List Fabric entries on documents with no QC entry yet. Entries made by\n" +
			"--user are left out so nobody checks their own work.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(svc *projection.Service) error {
				resp, err := svc.QC(cmd.Context(), user)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				if len(resp.Items) == 0 {
					fmt.Fprintln(out, "QC queue is empty")
					return nil
				}
				rows := make([][]string, 0, len(resp.Items))
				for _, it := range resp.Items {
					rows = append(rows, []string{it.DocNum, it.CreatedUser, it.DocGUID})
				}
				fmt.Fprintln(out, renderTable([]string{"Doc", "Processed By", "GUID"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "Requesting user; their own Fabric entries are excluded")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newFollowUpsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "followups",
		Aliases: []string{"holds"},
		Short:   "List held documents and how long since they were followed up",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(svc *projection.Service) error {
				resp, err := svc.FollowUps(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				if len(resp.Items) == 0 {
					fmt.Fprintln(out, "No documents on hold")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Doc", "Days", "Summary"},
					followUpRows(resp.Items),
					withAligns(alignLeft, alignRight),
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func followUpRows(items []api.FollowUpItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		days := "-"
		if it.DaysSince != nil {
			days = strconv.Itoa(*it.DaysSince)
		}
		rows = append(rows, []string{it.DocNum, days, it.DurString})
	}
	return rows
}

func newPinsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "pins",
		Short: "Show the retired-PIN register with the latest treasurer review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(svc *projection.Service) error {
				resp, err := svc.RetiredPINs(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				if len(resp.Items) == 0 {
					fmt.Fprintln(out, "No retired PINs recorded")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"PIN", "Doc", "Doc Status", "Last Review", "Result"},
					retiredPINRows(resp.Items),
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func retiredPINRows(items []api.RetiredPIN) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.PIN,
			it.Doc,
			records.DocumentStatus(it.DocStatus).String(),
			optional(it.LatestReviewDate),
			optional(it.LatestReviewResult),
		})
	}
	return rows
}
