package testsupport

import (
	"time"

	"github.com/google/uuid"

	"gisflow/internal/records"
)

// SampleNow is the evaluation instant the sample snapshot is built around.
var SampleNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, mustChicago())

func mustChicago() *time.Location {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		panic(err)
	}
	return loc
}

// SampleGUID returns the deterministic GlobalID used for docNum.
func SampleGUID(docNum string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("gisflow-sample/"+docNum))
}

// SampleSnapshot covers every workflow stage and the supplementary reports.
//
//	2025-000101 PLAT open, unreviewed            -> Review
//	2025-000102 WD split, retired PIN uncleared  -> Pending T/C
//	2025-000103 WD split, cleared, no devnet     -> Devnet
//	2025-000104 SUBN good legal, fabric by jsmith, still Processing -> Fabric
//	2025-000105 WD good legal, assessor review   -> Done
//	2025-000106 PLAT on hold, followed up 10 days ago
//	2025-000107 WD on hold, never followed up
//	2025-000108 DED closed, fabric by akim, no QC -> Done, in QC queue
//	2025-000109 PLAT closed, fabric by jsmith, QC'd -> Done
//	2025-000110 WD dropped, also retires PIN 03-103
func SampleSnapshot() records.Snapshot {
	now := SampleNow
	day := 24 * time.Hour
	lastYear := now.Year() - 1

	var snap records.Snapshot
	var oid int64
	next := func() int64 { oid++; return oid }

	doc := func(num, docType string, status records.DocumentStatus) uuid.UUID {
		id := SampleGUID(num)
		snap.Documents = append(snap.Documents, records.Document{
			ObjectID: next(), DocNum: num, DocType: docType, GlobalID: id, Status: status,
		})
		return id
	}
	review := func(doc uuid.UUID, result records.ReviewResult, at time.Time) {
		snap.Reviews = append(snap.Reviews, records.Review{ObjectID: next(), DocGlobalID: doc, Result: result, CreatedDate: at.UTC()})
	}
	pin := func(doc uuid.UUID, pin string, typ records.PINType, year *int) {
		snap.PINs = append(snap.PINs, records.ParcelPIN{ObjectID: next(), DocGlobalID: doc, PIN: pin, Type: typ, Year: year})
	}
	entry := func(doc uuid.UUID, step records.ProcessStep, user string, at time.Time) {
		snap.Processing = append(snap.Processing, records.ProcessingEntry{ObjectID: next(), DocGlobalID: doc, Step: step, CreatedUser: user, CreatedDate: at.UTC()})
	}

	doc("2025-000101", "PLAT", records.StatusOpen)

	d102 := doc("2025-000102", "WD", records.StatusProcessing)
	review(d102, records.ReviewSplitCombo, now.Add(-5*day))
	pin(d102, "02-102", records.PINRetired, nil)

	d103 := doc("2025-000103", "WD", records.StatusProcessing)
	review(d103, records.ReviewSplitCombo, now.Add(-4*day))
	pin(d103, "03-103", records.PINRetired, &lastYear)

	d104 := doc("2025-000104", "SUBN", records.StatusProcessing)
	review(d104, records.ReviewGoodLegal, now.Add(-3*day))
	entry(d104, records.StepFabric, "jsmith", now.Add(-2*day))

	d105 := doc("2025-000105", "WD", records.StatusAssessorReview)
	review(d105, records.ReviewGoodLegal, now.Add(-3*day))

	d106 := doc("2025-000106", "PLAT", records.StatusAssessorHold)
	snap.FollowUps = append(snap.FollowUps,
		records.FollowUp{ObjectID: next(), DocGlobalID: d106, FollowUpDate: now.Add(-30 * day).UTC()},
		records.FollowUp{ObjectID: next(), DocGlobalID: d106, FollowUpDate: now.Add(-10*day - time.Hour).UTC()},
	)

	doc("2025-000107", "WD", records.StatusAssessorHold)

	d108 := doc("2025-000108", "DED", records.StatusClosed)
	review(d108, records.ReviewGoodLegal, now.Add(-6*day))
	entry(d108, records.StepFabric, "akim", now.Add(-day))

	d109 := doc("2025-000109", "PLAT", records.StatusClosed)
	review(d109, records.ReviewGoodLegal, now.Add(-6*day))
	entry(d109, records.StepFabric, "jsmith", now.Add(-2*day))
	entry(d109, records.StepQC, "akim", now.Add(-day))

	d110 := doc("2025-000110", "WD", records.StatusDropped)
	pin(d110, "03-103", records.PINRetired, nil)

	approved := now.Add(-20 * day).UTC()
	snap.Clearance = append(snap.Clearance, records.ClearanceRecord{
		PIN:                 "03-103",
		TreasurerApproved:   true,
		TreasurerReviewedAt: &approved,
		ClerkApproved:       true,
		ClerkReviewedAt:     &approved,
	})

	snap.TCReviews = append(snap.TCReviews,
		records.TCReview{ObjectID: next(), PIN: "03-103", Authority: records.AuthorityTreasurer, Result: 0, CreatedDate: now.Add(-60 * day).UTC()},
		records.TCReview{ObjectID: next(), PIN: "03-103", Authority: records.AuthorityTreasurer, Result: records.TCApproved, CreatedDate: approved},
		records.TCReview{ObjectID: next(), PIN: "03-103", Authority: records.AuthorityClerk, Result: records.TCApproved, CreatedDate: approved},
	)
	return snap
}
