package scene

import (
	"errors"
	"testing"
)

func TestValidateOrder(t *testing.T) {
	align := Node{ID: "r1", Kind: KindAlign, Children: []string{"a", "b"}}

	tests := []struct {
		name  string
		nodes []Node
		want  error
	}{
		{
			name:  "relation after children",
			nodes: []Node{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1), align},
		},
		{
			name:  "relation before child",
			nodes: []Node{rect("a", 0, 0, 1, 1), align, rect("b", 0, 0, 1, 1)},
			want:  ErrOrderViolation,
		},
		{
			name:  "unknown child",
			nodes: []Node{rect("a", 0, 0, 1, 1), align},
			want:  ErrUnknownChild,
		},
		{
			name: "cycle",
			nodes: []Node{
				{ID: "r1", Kind: KindGroup, Children: []string{"r2"}},
				{ID: "r2", Kind: KindGroup, Children: []string{"r1"}},
			},
			want: ErrCycle,
		},
		{
			name: "self reference",
			nodes: []Node{
				{ID: "g", Kind: KindGroup, Children: []string{"g"}},
			},
			want: ErrCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MustNew(tt.nodes...).ValidateOrder()
			if tt.want == nil && err != nil {
				t.Fatalf("ValidateOrder() error = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("ValidateOrder() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateOwnership(t *testing.T) {
	both := rect("a", 0, 0, 10, 10)
	both.Owned.X = Claim{Owner: "r1", Value: 0}

	neither := rect("a", 0, 0, 10, 10)
	neither.BBox.X = Coord{}

	tests := []struct {
		name string
		a    Node
		want error
	}{
		{"intrinsic", rect("a", 0, 0, 10, 10), nil},
		{"owned by r1", owned("a", 0, "r1", 0, 10, 10), nil},
		{"both defined", both, ErrOwnershipConflict},
		{"neither defined", neither, ErrUndefinedAxis},
		{"unknown owner", owned("a", 0, "ghost", 0, 10, 10), ErrDanglingOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := owned("b", 0, "r1", 20, 10, 10)
			r := Node{ID: "r1", Kind: KindAlign, Children: []string{"a", "b"}, Params: Params{Alignment: AlignLeft}}
			err := MustNew(tt.a, b, r).ValidateOwnership()
			if tt.want == nil && err != nil {
				t.Fatalf("ValidateOwnership() error = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("ValidateOwnership() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSortedRepairsOrder(t *testing.T) {
	s := MustNew(
		rect("a", 0, 0, 1, 1),
		Node{ID: "r1", Kind: KindAlign, Children: []string{"a", "b"}},
		rect("b", 0, 0, 1, 1),
		rect("c", 0, 0, 1, 1),
	)
	sorted, err := s.Sorted()
	if err != nil {
		t.Fatalf("Sorted() error = %v", err)
	}
	want := []string{"a", "b", "r1", "c"}
	got := sorted.IDs()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted() ids = %v, want %v", got, want)
		}
	}
	if err := sorted.ValidateOrder(); err != nil {
		t.Errorf("ValidateOrder() after Sorted() = %v", err)
	}
}

func TestSortedKeepsValidOrder(t *testing.T) {
	s := MustNew(
		rect("b", 0, 0, 1, 1),
		rect("a", 0, 0, 1, 1),
		Node{ID: "r1", Kind: KindAlign, Children: []string{"a", "b"}},
	)
	sorted, err := s.Sorted()
	if err != nil {
		t.Fatalf("Sorted() error = %v", err)
	}
	got := sorted.IDs()
	want := s.IDs()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted() ids = %v, want %v", got, want)
		}
	}
}
