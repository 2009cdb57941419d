package workflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gisflow/internal/records"
	"gisflow/internal/workflow"
)

func TestResolveReviewEmpty(t *testing.T) {
	state := workflow.ResolveReview(records.Document{DocType: "WD"}, nil, workflow.DefaultRules())
	assert.False(t, state.HasReview)
	assert.False(t, state.SplitCombo())
	assert.Equal(t, workflow.TrackAssessor, state.Track)
	assert.Equal(t, "assr", state.Track.Label())
}

func TestResolveReviewPicksLatestAndBreaksTiesOnObjectID(t *testing.T) {
	at := time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)
	reviews := []records.Review{
		{ObjectID: 5, Result: records.ReviewSplitCombo, CreatedDate: at},
		{ObjectID: 9, Result: records.ReviewNoFurtherAction, CreatedDate: at},
		{ObjectID: 20, Result: records.ReviewGoodLegal, CreatedDate: at.Add(-time.Minute)},
	}

	state := workflow.ResolveReview(records.Document{DocType: "plat"}, reviews, workflow.DefaultRules())

	assert.True(t, state.HasReview)
	assert.Equal(t, records.ReviewNoFurtherAction, state.Latest)
	assert.True(t, state.NoFurtherAction())
	assert.Equal(t, workflow.TrackGIS, state.Track)

	reversed := []records.Review{reviews[2], reviews[1], reviews[0]}
	assert.Equal(t, state, workflow.ResolveReview(records.Document{DocType: "plat"}, reversed, workflow.DefaultRules()))
}

func TestRulesCandidateFilter(t *testing.T) {
	rules := workflow.DefaultRules()
	cases := []struct {
		docType string
		status  records.DocumentStatus
		want    bool
	}{
		{"WD", records.StatusOpen, false},
		{"PLAT", records.StatusOpen, true},
		{"WD", records.StatusGISReview, true},
		{"PLAT", records.StatusAssessorHold, false},
		{"PLAT", records.StatusDropped, false},
		{"WD", records.StatusClosed, true},
		{"WD", 42, true},
	}
	for _, tc := range cases {
		doc := records.Document{DocType: tc.docType, Status: tc.status}
		assert.Equal(t, tc.want, rules.IsCandidate(doc), "%s/%v", tc.docType, tc.status)
	}
}

func TestRulesWithCustomGISTypes(t *testing.T) {
	rules := workflow.DefaultRules().WithGISDocTypes([]string{" esmt ", ""})
	assert.True(t, rules.IsGISType("ESMT"))
	assert.False(t, rules.IsGISType("PLAT"))
	assert.Equal(t, []string{"ESMT"}, rules.GISDocTypes())
	assert.True(t, workflow.DefaultRules().IsGISType("plat"))
}
