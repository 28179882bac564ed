package archive_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sbst-go/sbst/pkg/search/archive"
	"github.com/sbst-go/sbst/pkg/search/framework"
)

type objective struct{ target string }

func (o objective) ID() string                    { return framework.ObjectiveID(o.Kind(), o.target) }
func (o objective) Kind() framework.ObjectiveKind { return framework.BranchObjective }
func (o objective) TargetID() string              { return o.target }
func (o objective) Distance(e framework.Encoding) (float64, error) {
	d, _ := e.Distance(o.ID())
	return d, nil
}

type sized struct {
	framework.EncodingMeta
	length int
}

func newSized(length int, covers ...objective) *sized {
	s := &sized{EncodingMeta: framework.NewEncodingMeta(), length: length}
	for _, o := range covers {
		s.SetDistance(o.ID(), 0)
	}
	return s
}

func (s *sized) Copy() framework.Encoding         { return newSized(s.length) }
func (s *sized) Mutate(framework.EncodingSampler) {}
func (s *sized) Length() int                      { return s.length }

func ids(encodings []framework.Encoding) []string {
	out := make([]string, 0, len(encodings))
	for _, e := range encodings {
		out = append(out, e.ID())
	}
	return out
}

func TestUpdateIsIdempotent(t *testing.T) {
	a := archive.New()
	o := objective{target: "b1"}
	e := newSized(3, o)

	if err := a.Update(o, e); err != nil {
		t.Fatalf("first update: %v", err)
	}
	before := ids(a.Encodings())
	if err := a.Update(o, e); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if a.Size() != 1 {
		t.Errorf("size = %d, want 1", a.Size())
	}
	if diff := cmp.Diff(before, ids(a.Encodings())); diff != "" {
		t.Errorf("contents changed (-before +after):\n%s", diff)
	}
}

func TestUpdateRejectsNonCovering(t *testing.T) {
	a := archive.New()
	o := objective{target: "b1"}
	e := newSized(3)
	e.SetDistance(o.ID(), 0.4)

	if err := a.Update(o, e); !errors.Is(err, archive.ErrInconsistentEntry) {
		t.Fatalf("expected ErrInconsistentEntry, got %v", err)
	}
	if err := a.Update(o, newSized(3)); !errors.Is(err, archive.ErrInconsistentEntry) {
		t.Fatalf("expected ErrInconsistentEntry without distance, got %v", err)
	}
	if a.Size() != 0 {
		t.Errorf("rejected entries must not be stored")
	}
}

func TestEncodingsAreDistinctAndOrdered(t *testing.T) {
	a := archive.New()
	o1, o2, o3 := objective{"1"}, objective{"2"}, objective{"3"}
	shared := newSized(2, o1, o3)
	other := newSized(5, o2)

	for _, step := range []struct {
		o objective
		e framework.Encoding
	}{{o1, shared}, {o2, other}, {o3, shared}} {
		if err := a.Update(step.o, step.e); err != nil {
			t.Fatal(err)
		}
	}

	if diff := cmp.Diff([]string{shared.ID(), other.ID()}, ids(a.Encodings())); diff != "" {
		t.Errorf("encodings mismatch (-want +got):\n%s", diff)
	}
	if !a.Remove(o2) || a.Remove(o2) {
		t.Errorf("Remove should succeed once")
	}
	if a.Size() != 2 || a.Has(o2) {
		t.Errorf("unexpected archive after remove: size %d", a.Size())
	}
}

func TestMerge(t *testing.T) {
	o1, o2 := objective{"1"}, objective{"2"}
	a, b := archive.New(), archive.New()
	kept := newSized(1, o1)
	if err := a.Update(o1, kept); err != nil {
		t.Fatal(err)
	}
	if err := b.Update(o1, newSized(9, o1)); err != nil {
		t.Fatal(err)
	}
	if err := b.Update(o2, newSized(9, o2)); err != nil {
		t.Fatal(err)
	}
	if err := a.Merge(b); err != nil {
		t.Fatal(err)
	}
	if got, _ := a.Get(o1); got.ID() != kept.ID() {
		t.Errorf("merge must not replace existing entries")
	}
	if !a.Has(o2) {
		t.Errorf("merge must add missing entries")
	}
}

func TestPrefer(t *testing.T) {
	chain, err := archive.NewSecondaryObjectives("length")
	if err != nil {
		t.Fatal(err)
	}
	short, long := newSized(1), newSized(4)

	tests := []struct {
		name                  string
		chain                 []archive.SecondaryObjective
		challenger, incumbent framework.Encoding
		want                  bool
	}{
		{name: "shorter challenger wins", chain: chain, challenger: short, incumbent: long, want: true},
		{name: "longer challenger loses", chain: chain, challenger: long, incumbent: short, want: false},
		{name: "tie keeps incumbent", chain: chain, challenger: newSized(4), incumbent: long, want: false},
		{name: "empty chain keeps incumbent", chain: nil, challenger: short, incumbent: long, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := archive.Prefer(tc.chain, tc.challenger, tc.incumbent); got != tc.want {
				t.Errorf("Prefer = %v, want %v", got, tc.want)
			}
		})
	}

	if _, err := archive.NewSecondaryObjectives("speed"); !errors.Is(err, archive.ErrUnknownSecondaryObjective) {
		t.Errorf("expected ErrUnknownSecondaryObjective, got %v", err)
	}
}
