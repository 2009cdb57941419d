// Package fixture reads and writes workflow snapshots as YAML so a county
// export, or a hand-written scenario, can be loaded into the local store.
//
// Child rows reference their document either by GlobalID (doc_guid) or by
// document number (doc). Document GlobalIDs may be omitted, in which case a
// stable one is derived from the document number.
package fixture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"gisflow/internal/records"
)

// ErrUnknownDocument reports a child row whose document reference resolves
// to nothing in the fixture.
var ErrUnknownDocument = errors.New("unknown document reference")

// File is the on-disk layout.
type File struct {
	Documents  []Document  `yaml:"documents"`
	Reviews    []Review    `yaml:"reviews,omitempty"`
	PINs       []PIN       `yaml:"pins,omitempty"`
	Processing []Entry     `yaml:"processing,omitempty"`
	Clearance  []Clearance `yaml:"clearance,omitempty"`
	TCReviews  []TCReview  `yaml:"tc_reviews,omitempty"`
	FollowUps  []FollowUp  `yaml:"followups,omitempty"`
}

// Document is one recorded document row.
type Document struct {
	ObjectID int64  `yaml:"objectid,omitempty"`
	DocNum   string `yaml:"doc_num"`
	DocType  string `yaml:"doc_type"`
	GlobalID string `yaml:"globalid,omitempty"`
	Status   int    `yaml:"status"`
}

// DocRef points a child row at its document.
type DocRef struct {
	DocGUID string `yaml:"doc_guid,omitempty"`
	DocNum  string `yaml:"doc,omitempty"`
}

// Review is one GIS review event.
type Review struct {
	ObjectID int64 `yaml:"objectid,omitempty"`
	DocRef   `yaml:",inline"`
	Result   int       `yaml:"result"`
	Created  time.Time `yaml:"created"`
}

// PIN is one parcel association.
type PIN struct {
	ObjectID int64 `yaml:"objectid,omitempty"`
	DocRef   `yaml:",inline"`
	PIN      string `yaml:"pin"`
	Type     int    `yaml:"type"`
	Year     *int   `yaml:"year,omitempty"`
}

// Entry is one processing step entry.
type Entry struct {
	ObjectID int64 `yaml:"objectid,omitempty"`
	DocRef   `yaml:",inline"`
	Step     int       `yaml:"step"`
	User     string    `yaml:"user"`
	Created  time.Time `yaml:"created"`
}

// Clearance is one per-PIN treasurer/clerk sign-off row.
type Clearance struct {
	PIN                 string     `yaml:"pin"`
	TreasurerApproved   bool       `yaml:"treasurer_approved"`
	TreasurerReviewedAt *time.Time `yaml:"treasurer_reviewed_at,omitempty"`
	ClerkApproved       bool       `yaml:"clerk_approved"`
	ClerkReviewedAt     *time.Time `yaml:"clerk_reviewed_at,omitempty"`
}

// TCReview is one raw treasurer or clerk review event.
type TCReview struct {
	ObjectID  int64     `yaml:"objectid,omitempty"`
	PIN       string    `yaml:"pin"`
	Authority int       `yaml:"authority"`
	Result    int       `yaml:"result"`
	Created   time.Time `yaml:"created"`
}

// FollowUp is one follow-up contact.
type FollowUp struct {
	ObjectID int64 `yaml:"objectid,omitempty"`
	DocRef   `yaml:",inline"`
	Date     time.Time `yaml:"date"`
}

// LoadFile decodes the fixture at path.
func LoadFile(path string) (records.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return records.Snapshot{}, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a fixture and resolves it into a snapshot.
func Decode(r io.Reader) (records.Snapshot, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return records.Snapshot{}, nil
		}
		return records.Snapshot{}, fmt.Errorf("decode fixture: %w", err)
	}
	return file.Snapshot()
}

// DocumentGUID derives the GlobalID used for a document that has none.
func DocumentGUID(docNum string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("gisflow:doc:"+strings.TrimSpace(docNum)))
}

// Snapshot resolves document references and assigns missing object IDs.
func (f File) Snapshot() (records.Snapshot, error) {
	var snap records.Snapshot
	byNum := make(map[string]uuid.UUID, len(f.Documents))

	for i, d := range f.Documents {
		num := strings.TrimSpace(d.DocNum)
		if num == "" {
			return records.Snapshot{}, fmt.Errorf("documents[%d]: doc_num is required", i)
		}
		id := DocumentGUID(num)
		if d.GlobalID != "" {
			parsed, err := records.ParseGlobalID(d.GlobalID)
			if err != nil {
				return records.Snapshot{}, fmt.Errorf("documents[%d]: %w", i, err)
			}
			id = parsed
		}
		if _, dup := byNum[num]; dup {
			return records.Snapshot{}, fmt.Errorf("documents[%d]: duplicate doc_num %s", i, num)
		}
		byNum[num] = id
		snap.Documents = append(snap.Documents, records.Document{
			ObjectID: objectID(d.ObjectID, i),
			DocNum:   num,
			DocType:  records.NormalizeDocType(d.DocType),
			GlobalID: id,
			Status:   records.DocumentStatus(d.Status),
		})
	}

	resolve := func(section string, i int, ref DocRef) (uuid.UUID, error) {
		switch {
		case ref.DocGUID != "":
			id, err := records.ParseGlobalID(ref.DocGUID)
			if err != nil {
				return uuid.Nil, fmt.Errorf("%s[%d]: %w", section, i, err)
			}
			return id, nil
		case ref.DocNum != "":
			id, ok := byNum[strings.TrimSpace(ref.DocNum)]
			if !ok {
				return uuid.Nil, fmt.Errorf("%s[%d]: %w: %s", section, i, ErrUnknownDocument, ref.DocNum)
			}
			return id, nil
		default:
			return uuid.Nil, fmt.Errorf("%s[%d]: doc or doc_guid is required", section, i)
		}
	}

	for i, r := range f.Reviews {
		id, err := resolve("reviews", i, r.DocRef)
		if err != nil {
			return records.Snapshot{}, err
		}
		snap.Reviews = append(snap.Reviews, records.Review{
			ObjectID:    objectID(r.ObjectID, i),
			DocGlobalID: id,
			Result:      records.ReviewResult(r.Result),
			CreatedDate: r.Created.UTC(),
		})
	}
	for i, p := range f.PINs {
		id, err := resolve("pins", i, p.DocRef)
		if err != nil {
			return records.Snapshot{}, err
		}
		snap.PINs = append(snap.PINs, records.ParcelPIN{
			ObjectID:    objectID(p.ObjectID, i),
			DocGlobalID: id,
			PIN:         records.NormalizePIN(p.PIN),
			Type:        records.PINType(p.Type),
			Year:        p.Year,
		})
	}
	for i, e := range f.Processing {
		id, err := resolve("processing", i, e.DocRef)
		if err != nil {
			return records.Snapshot{}, err
		}
		snap.Processing = append(snap.Processing, records.ProcessingEntry{
			ObjectID:    objectID(e.ObjectID, i),
			DocGlobalID: id,
			Step:        records.ProcessStep(e.Step),
			CreatedUser: strings.TrimSpace(e.User),
			CreatedDate: e.Created.UTC(),
		})
	}
	for _, c := range f.Clearance {
		snap.Clearance = append(snap.Clearance, records.ClearanceRecord{
			PIN:                 records.NormalizePIN(c.PIN),
			TreasurerApproved:   c.TreasurerApproved,
			TreasurerReviewedAt: utcPtr(c.TreasurerReviewedAt),
			ClerkApproved:       c.ClerkApproved,
			ClerkReviewedAt:     utcPtr(c.ClerkReviewedAt),
		})
	}
	for i, r := range f.TCReviews {
		snap.TCReviews = append(snap.TCReviews, records.TCReview{
			ObjectID:    objectID(r.ObjectID, i),
			PIN:         records.NormalizePIN(r.PIN),
			Authority:   records.Authority(r.Authority),
			Result:      records.TCResult(r.Result),
			CreatedDate: r.Created.UTC(),
		})
	}
	for i, fu := range f.FollowUps {
		id, err := resolve("followups", i, fu.DocRef)
		if err != nil {
			return records.Snapshot{}, err
		}
		snap.FollowUps = append(snap.FollowUps, records.FollowUp{
			ObjectID:     objectID(fu.ObjectID, i),
			DocGlobalID:  id,
			FollowUpDate: fu.Date.UTC(),
		})
	}
	return snap, nil
}

// FromSnapshot converts a snapshot into the fixture layout. Child rows keep
// their GlobalID references.
func FromSnapshot(snap records.Snapshot) File {
	var f File
	for _, d := range snap.Documents {
		f.Documents = append(f.Documents, Document{
			ObjectID: d.ObjectID,
			DocNum:   d.DocNum,
			DocType:  d.DocType,
			GlobalID: records.FormatGlobalID(d.GlobalID),
			Status:   int(d.Status),
		})
	}
	ref := func(id uuid.UUID) DocRef { return DocRef{DocGUID: records.FormatGlobalID(id)} }
	for _, r := range snap.Reviews {
		f.Reviews = append(f.Reviews, Review{ObjectID: r.ObjectID, DocRef: ref(r.DocGlobalID), Result: int(r.Result), Created: r.CreatedDate})
	}
	for _, p := range snap.PINs {
		f.PINs = append(f.PINs, PIN{ObjectID: p.ObjectID, DocRef: ref(p.DocGlobalID), PIN: p.PIN, Type: int(p.Type), Year: p.Year})
	}
	for _, e := range snap.Processing {
		f.Processing = append(f.Processing, Entry{ObjectID: e.ObjectID, DocRef: ref(e.DocGlobalID), Step: int(e.Step), User: e.CreatedUser, Created: e.CreatedDate})
	}
	for _, c := range snap.Clearance {
		f.Clearance = append(f.Clearance, Clearance{
			PIN:                 c.PIN,
			TreasurerApproved:   c.TreasurerApproved,
			TreasurerReviewedAt: c.TreasurerReviewedAt,
			ClerkApproved:       c.ClerkApproved,
			ClerkReviewedAt:     c.ClerkReviewedAt,
		})
	}
	for _, r := range snap.TCReviews {
		f.TCReviews = append(f.TCReviews, TCReview{ObjectID: r.ObjectID, PIN: r.PIN, Authority: int(r.Authority), Result: int(r.Result), Created: r.CreatedDate})
	}
	for _, fu := range snap.FollowUps {
		f.FollowUps = append(f.FollowUps, FollowUp{ObjectID: fu.ObjectID, DocRef: ref(fu.DocGlobalID), Date: fu.FollowUpDate})
	}
	return f
}

// Encode writes snap as YAML.
func Encode(w io.Writer, snap records.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromSnapshot(snap)); err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}
	return enc.Close()
}

// objectID keeps explicit IDs and numbers the rest by position.
func objectID(explicit int64, index int) int64 {
	if explicit > 0 {
		return explicit
	}
	return int64(index + 1)
}

func utcPtr(ts *time.Time) *time.Time {
	if ts == nil {
		return nil
	}
	v := ts.UTC()
	return &v
}
