package align

import (
	"testing"
	"time"

	"github.com/star/scopealign/internal/astro"
	"github.com/star/scopealign/internal/vector"
)

type fakeDB struct {
	pos     astro.Position
	hasPos  bool
	entries []SyncPointEntry
}

func (f *fakeDB) GetReferencePosition() (astro.Position, bool) { return f.pos, f.hasPos }
func (f *fakeDB) GetAlignmentDatabase() []SyncPointEntry       { return f.entries }

var j2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

func TestInitialiseNoDatabase(t *testing.T) {
	e := NewEngine(nil)
	err := e.Initialise(nil)
	if k, ok := KindOf(err); !ok || k != NoDatabase {
		t.Fatalf("error kind = %v, want NoDatabase", k)
	}
	if e.State() != Unbuilt {
		t.Errorf("state = %v, want Unbuilt", e.State())
	}
}

func TestInitialiseNoReferencePosition(t *testing.T) {
	e := NewEngine(nil)
	err := e.Initialise(&fakeDB{hasPos: false})
	if k, ok := KindOf(err); !ok || k != NoDatabase {
		t.Fatalf("error kind = %v, want NoDatabase", k)
	}
}

func TestInitialiseZeroPoints(t *testing.T) {
	e := NewEngine(nil)
	if err := e.Initialise(&fakeDB{hasPos: true}); err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	if e.State() != BuiltN0 {
		t.Errorf("state = %v, want BuiltN0", e.State())
	}
}

func TestInitialiseOnePoint(t *testing.T) {
	e := NewEngine(nil)
	e.Now = func() time.Time { return j2000 }
	db := &fakeDB{
		hasPos: true,
		entries: []SyncPointEntry{
			{RAHours: 6, DecDeg: 0, ObservationJD: astro.JulianDate(j2000), ApparentVector: vector.New(1, 0, 0)},
		},
	}
	if err := e.Initialise(db); err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	if e.State() != BuiltSmall {
		t.Fatalf("state = %v, want BuiltSmall", e.State())
	}

	got, err := e.CelestialToTelescope(6, 0, 0)
	if err != nil {
		t.Fatalf("CelestialToTelescope: %v", err)
	}
	want := vector.New(1, 0, 0)
	if got.Sub(want).Length() > 1e-10 {
		t.Errorf("CelestialToTelescope(6h,0) = %+v, want %+v", got, want)
	}
}

func TestInitialiseThreeOrthogonalIdentity(t *testing.T) {
	e := NewEngine(nil)
	e.SetApproximateMountAlignment(astro.NorthCelestialPole)
	entries := []SyncPointEntry{
		{RAHours: 0, DecDeg: 0, ApparentVector: vector.New(1, 0, 0)},
		{RAHours: 6, DecDeg: 0, ApparentVector: vector.New(0, 1, 0)},
		{RAHours: 0, DecDeg: 90, ApparentVector: vector.New(0, 0, 1)},
	}
	db := &fakeDB{hasPos: true, entries: entries}
	if err := e.Initialise(db); err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	if e.State() != BuiltSmall {
		t.Fatalf("state = %v, want BuiltSmall", e.State())
	}

	for _, entry := range entries {
		got, err := e.CelestialToTelescope(entry.RAHours, entry.DecDeg, 0)
		if err != nil {
			t.Fatalf("CelestialToTelescope: %v", err)
		}
		if got.Sub(entry.ApparentVector).Length() > 1e-9 {
			t.Errorf("CelestialToTelescope(%v,%v) = %+v, want %+v", entry.RAHours, entry.DecDeg, got, entry.ApparentVector)
		}
	}
}

func TestInitialiseSingularTripleFails(t *testing.T) {
	e := NewEngine(nil)
	e.SetApproximateMountAlignment(astro.NorthCelestialPole)
	entries := []SyncPointEntry{
		{RAHours: 0, DecDeg: 0, ApparentVector: vector.New(1, 0, 0)},
		{RAHours: 0, DecDeg: 0, ApparentVector: vector.New(2, 0, 0)},
		{RAHours: 0, DecDeg: 0, ApparentVector: vector.New(3, 0, 0)},
	}
	db := &fakeDB{hasPos: true, entries: entries}
	err := e.Initialise(db)
	if k, ok := KindOf(err); !ok || k != SingularBasis {
		t.Fatalf("error kind = %v, want SingularBasis", k)
	}
	if e.State() != Unbuilt {
		t.Errorf("state = %v, want Unbuilt after a failed build", e.State())
	}

	if _, qerr := e.CelestialToTelescope(0, 0, 0); qerr == nil {
		t.Error("expected a query against an unbuilt engine to fail")
	} else if k, ok := KindOf(qerr); !ok || k != NotBuilt {
		t.Errorf("query error kind = %v, want NotBuilt", k)
	}
}

func cardinalEntries() []SyncPointEntry {
	return []SyncPointEntry{
		{RAHours: 0, DecDeg: 0, ApparentVector: vector.New(1, 0, 0)},
		{RAHours: 6, DecDeg: 0, ApparentVector: vector.New(0, 1, 0)},
		{RAHours: 0, DecDeg: 90, ApparentVector: vector.New(0, 0, 1)},
		{RAHours: 12, DecDeg: 0, ApparentVector: vector.New(-1, 0, 0)},
	}
}

func TestInitialiseFourPointsBuildsHull(t *testing.T) {
	e := NewEngine(nil)
	e.SetApproximateMountAlignment(astro.NorthCelestialPole)
	db := &fakeDB{hasPos: true, entries: cardinalEntries()}
	if err := e.Initialise(db); err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	if e.State() != BuiltHull {
		t.Fatalf("state = %v, want BuiltHull", e.State())
	}
}

func TestInitialiseHullHasNoUnmatchedSkirtFacets(t *testing.T) {
	e := NewEngine(nil)
	e.SetApproximateMountAlignment(astro.NorthCelestialPole)
	db := &fakeDB{hasPos: true, entries: cardinalEntries()}
	if err := e.Initialise(db); err != nil {
		t.Fatalf("Initialise: %v", err)
	}

	m := e.cur.Load()
	for _, f := range m.hull.Actual {
		if !f.IsSkirt() && f.Matrix == nil {
			t.Errorf("non-skirt actual facet %+v has no matrix", f)
		}
		if f.IsSkirt() && f.Matrix != nil {
			t.Errorf("skirt facet %+v has a matrix", f)
		}
	}
}
