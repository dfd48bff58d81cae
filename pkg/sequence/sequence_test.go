package sequence

import (
	"fmt"
	"testing"

	"github.com/pdewald/asciimate/pkg/errors"
)

// checkPermutation fails the test unless order is a bijection onto [0, n).
func checkPermutation(t *testing.T, order []int, n int) {
	t.Helper()
	if len(order) != n {
		t.Fatalf("order length = %d, want %d", len(order), n)
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n {
			t.Fatalf("index %d out of range [0, %d)", idx, n)
		}
		if seen[idx] {
			t.Fatalf("index %d appears more than once", idx)
		}
		seen[idx] = true
	}
}

func TestSequencePermutation(t *testing.T) {
	shapes := []struct{ cols, rows int }{
		{1, 1},
		{4, 4},
		{10, 10},
		{7, 3},
		{1, 50},
		{150, 270},
	}

	for _, style := range Styles {
		for _, shape := range shapes {
			order, err := Sequence(style, shape.cols, shape.rows, DefaultSeed)
			if err != nil {
				t.Fatalf("Sequence(%s, %dx%d): %v", style, shape.cols, shape.rows, err)
			}
			checkPermutation(t, order, shape.cols*shape.rows)
		}
	}
}

func TestSequentialIdentity(t *testing.T) {
	order, err := Sequence(StyleSequential, 5, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i, idx := range order {
		if idx != i {
			t.Fatalf("order[%d] = %d, want identity", i, idx)
		}
	}
}

func TestMatrixColumnMajor(t *testing.T) {
	order, err := Sequence(StyleMatrix, 4, 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 4, 8, 12, 1, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11, 15}
	if len(order) != len(want) {
		t.Fatalf("order length = %d, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order[%d] = %d, want %d (full: %v)", i, order[i], want[i], order)
		}
	}
}

func TestSeededDeterminism(t *testing.T) {
	for _, style := range []Style{StyleAnts, StyleRandom} {
		a, err := Sequence(style, 20, 15, 7)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Sequence(style, 20, 15, 7)
		if err != nil {
			t.Fatal(err)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%s: runs with the same seed diverge at %d: %d != %d", style, i, a[i], b[i])
			}
		}
	}
}

func TestSeedChangesRandomOrder(t *testing.T) {
	a, _ := Sequence(StyleRandom, 20, 20, 1)
	b, _ := Sequence(StyleRandom, 20, 20, 2)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds should produce different shuffles")
	}
}

func TestAntsStartsWithTrails(t *testing.T) {
	// The first DefaultAnts entries come from the agents' starting cells,
	// so early entries should not simply be the identity prefix.
	order, err := Sequence(StyleAnts, 30, 30, DefaultSeed)
	if err != nil {
		t.Fatal(err)
	}
	identity := true
	for i := 0; i < 20; i++ {
		if order[i] != i {
			identity = false
			break
		}
	}
	if identity {
		t.Error("ants order should not begin with the identity prefix")
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"sequential", StyleSequential, false},
		{"matrix", StyleMatrix, false},
		{"ants", StyleAnts, false},
		{"random", StyleRandom, false},
		{"spiral", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStyle(%q) should fail", tt.in)
			} else if !errors.Is(err, errors.ErrCodeInvalidStyle) {
				t.Errorf("ParseStyle(%q) error code = %q, want INVALID_STYLE", tt.in, errors.GetCode(err))
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStyle(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSequenceInvalidGrid(t *testing.T) {
	if _, err := Sequence(StyleSequential, 0, 10, 0); !errors.Is(err, errors.ErrCodeInvalidGrid) {
		t.Errorf("expected INVALID_GRID for zero columns, got %v", err)
	}
	if _, err := Sequence(StyleRandom, 10, -1, 0); !errors.Is(err, errors.ErrCodeInvalidGrid) {
		t.Errorf("expected INVALID_GRID for negative rows, got %v", err)
	}
}

func ExampleSequence() {
	order, _ := Sequence(StyleMatrix, 3, 2, 0)
	fmt.Println(order)
	// Output: [0 3 1 4 2 5]
}
