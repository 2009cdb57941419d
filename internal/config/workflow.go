package config

import (
	"gisflow/internal/records"
	"gisflow/internal/workflow"
)

// Rules converts the workflow section into evaluator rules.
func (c *Config) Rules() workflow.Rules {
	rules := workflow.DefaultRules().WithGISDocTypes(c.Workflow.GISDocTypes)
	rules.OpenStatus = records.DocumentStatus(c.Workflow.OpenStatus)
	rules.HoldStatus = records.DocumentStatus(c.Workflow.HoldStatus)
	rules.GISReviewStatus = records.DocumentStatus(c.Workflow.GISReviewStatus)
	rules.ProcessingStatus = records.DocumentStatus(c.Workflow.ProcessingStatus)
	rules.DroppedStatus = records.DocumentStatus(c.Workflow.DroppedStatus)
	rules.ReviewFormID = c.Workflow.ReviewFormID
	rules.ProcessFormID = c.Workflow.ProcessFormID
	return rules
}
