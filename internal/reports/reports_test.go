package reports_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gisflow/internal/records"
	"gisflow/internal/reports"
	"gisflow/internal/testsupport"
)

func sample(t *testing.T) (records.Snapshot, *records.Index) {
	t.Helper()
	snap := testsupport.SampleSnapshot()
	return snap, records.NewIndex(snap, records.IndexOptions{})
}

func docNums[T any](items []T, num func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, num(it))
	}
	return out
}

func TestQCQueue(t *testing.T) {
	snap, idx := sample(t)
	num := func(i reports.QCItem) string { return i.DocNum }

	tests := []struct {
		name string
		user string
		want []string
	}{
		{name: "everyone", user: "", want: []string{"2025-000104", "2025-000108"}},
		{name: "excludes own fabric work", user: "akim", want: []string{"2025-000104"}},
		{name: "excludes jsmith", user: "jsmith", want: []string{"2025-000108"}},
		{name: "user match is exact", user: "JSMITH", want: []string{"2025-000104", "2025-000108"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := reports.QCQueue(snap, idx, tc.user)
			assert.Equal(t, tc.want, docNums(got, num))
		})
	}
}

func TestQCQueueCarriesGUIDAndUser(t *testing.T) {
	snap, idx := sample(t)
	got := reports.QCQueue(snap, idx, "jsmith")
	require.Len(t, got, 1)
	assert.Equal(t, records.FormatGlobalID(testsupport.SampleGUID("2025-000108")), got[0].DocGUID)
	assert.Equal(t, "akim", got[0].CreatedUser)
}

func TestQCQueueOneItemPerFabricEntry(t *testing.T) {
	doc := records.Document{ObjectID: 1, DocNum: "A", DocType: "WD", GlobalID: testsupport.SampleGUID("A"), Status: records.StatusClosed}
	at := testsupport.SampleNow.UTC()
	snap := records.Snapshot{
		Documents: []records.Document{doc},
		Processing: []records.ProcessingEntry{
			{ObjectID: 1, DocGlobalID: doc.GlobalID, Step: records.StepFabric, CreatedUser: "a", CreatedDate: at},
			{ObjectID: 2, DocGlobalID: doc.GlobalID, Step: records.StepFabric, CreatedUser: "b", CreatedDate: at},
			{ObjectID: 3, DocGlobalID: doc.GlobalID, Step: records.StepDevnet, CreatedUser: "c", CreatedDate: at},
		},
	}
	got := reports.QCQueue(snap, records.NewIndex(snap, records.IndexOptions{}), "")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].CreatedUser)
	assert.Equal(t, "b", got[1].CreatedUser)
}

func TestFollowUps(t *testing.T) {
	snap, idx := sample(t)
	got := reports.FollowUps(snap, idx, records.StatusAssessorHold, testsupport.SampleNow)
	require.Len(t, got, 2)

	assert.Equal(t, "2025-000106", got[0].DocNum)
	require.NotNil(t, got[0].DaysSince)
	assert.Equal(t, 10, *got[0].DaysSince)
	assert.Equal(t, "Last followed up 10 days ago.", got[0].Summary)

	assert.Equal(t, "2025-000107", got[1].DocNum)
	assert.Nil(t, got[1].DaysSince)
	assert.Equal(t, reports.NotFollowedUp, got[1].Summary)
}

func TestDaysSinceFloors(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, reports.DaysSince(now, now.Add(-23*time.Hour)))
	assert.Equal(t, 1, reports.DaysSince(now, now.Add(-25*time.Hour)))
	assert.Equal(t, -1, reports.DaysSince(now, now.Add(time.Hour)))
}

func TestRetiredPINRegister(t *testing.T) {
	snap, idx := sample(t)
	got := reports.RetiredPINRegister(snap, idx)
	require.Len(t, got, 2)

	assert.Equal(t, "02-102", got[0].PIN)
	assert.Equal(t, "2025-000102", got[0].DocNum)
	assert.Nil(t, got[0].LatestReviewDate)
	assert.Nil(t, got[0].LatestReviewResult)

	assert.Equal(t, "03-103", got[1].PIN)
	assert.Equal(t, "2025-000103", got[1].DocNum, "lowest document number wins")
	assert.Equal(t, records.StatusProcessing, got[1].DocStatus)
	require.NotNil(t, got[1].LatestReviewResult)
	assert.Equal(t, "Approved", *got[1].LatestReviewResult)
	require.NotNil(t, got[1].LatestReviewDate)
	assert.True(t, got[1].LatestReviewDate.Equal(testsupport.SampleNow.Add(-20*24*time.Hour)))
}
