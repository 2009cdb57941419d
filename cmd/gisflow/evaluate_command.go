package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gisflow/internal/api"
	"gisflow/internal/projection"
	"gisflow/internal/workflow"
)

func newEvaluateCommand(ctx *commandContext) *cobra.Command {
	var stageFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "evaluate",
		Aliases: []string{"workflow"},
		Short:   "Project open documents onto their workflow stage",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *workflow.Stage
			if strings.TrimSpace(stageFlag) != "" {
				stage, err := workflow.ParseStage(stageFlag)
				if err != nil {
					return err
				}
				filter = &stage
			}

			return ctx.withService(cmd.Context(), func(svc *projection.Service) error {
				resp, err := svc.Workflow(cmd.Context())
				if err != nil {
					return err
				}
				if filter != nil {
					resp = api.FilterStage(resp, *filter)
				}
				if jsonOutput {
					return writeJSON(cmd, resp)
				}
				printWorkflow(cmd, resp)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&stageFlag, "stage", "s", "", "Only show documents in this stage (review, pending-tc, devnet, fabric)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func printWorkflow(cmd *cobra.Command, resp api.WorkflowResponse) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	if len(resp.Records) == 0 {
		fmt.Fprintln(out, "No documents in the workflow")
	} else {
		fmt.Fprint(out, renderTable(
			[]string{"Doc", "Type", "Stage", "Processor", "Step", "Warnings", "GUID"},
			workflowRows(resp.Records, colorize),
			withAligns(alignLeft, alignLeft, alignLeft, alignLeft, alignRight),
			withMaxWidth(5, 48),
		))
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, stageSummary(resp.Counts))
}

func workflowRows(recs []api.WorkflowRecord, colorize bool) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []string{
			rec.DocNum,
			rec.DocType,
			colorStage(rec.ProcessingStatus, colorize),
			optional(rec.Processor),
			strconv.Itoa(rec.ProcessStep),
			strings.ReplaceAll(optional(rec.Warnings), "|", ", "),
			rec.DocGUID,
		})
	}
	return rows
}

// stageSummary renders counts in workflow order, e.g.
// "Review: 1  Pending T/C: 1  Devnet: 1  Fabric: 1".
func stageSummary(counts map[string]int) string {
	parts := make([]string, 0, len(workflow.ActiveStages))
	for _, stage := range workflow.ActiveStages {
		parts = append(parts, fmt.Sprintf("%s: %d", stage, counts[stage.String()]))
	}
	return strings.Join(parts, "  ")
}

func optional(value *string) string {
	if value == nil {
		return "-"
	}
	return *value
}
