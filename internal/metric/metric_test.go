package metric

import (
	"errors"
	"testing"

	"github.com/san-kum/genrel/internal/sym"
)

var minkowski = [][]string{
	{"-1", "0", "0", "0"},
	{"0", "1", "0", "0"},
	{"0", "0", "1", "0"},
	{"0", "0", "0", "1"},
}

func TestFromRows(t *testing.T) {
	m, err := FromRows("minkowski", minkowski, []string{"t", "x", "y", "z"})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if !m.At(0, 0).Equal(sym.N(-1)) {
		t.Errorf("g00 = %s", m.At(0, 0))
	}
	if m.Coord(2) != "y" {
		t.Errorf("Coord(2) = %s", m.Coord(2))
	}
	if err := m.CheckInvertible(); err != nil {
		t.Errorf("CheckInvertible: %v", err)
	}
}

func TestValidation(t *testing.T) {
	coords := []string{"t", "x", "y", "z"}
	asym := [][]string{
		{"-1", "v", "0", "0"},
		{"0", "1", "0", "0"},
		{"0", "0", "1", "0"},
		{"0", "0", "0", "1"},
	}
	degenerate := [][]string{
		{"0", "0", "0", "0"},
		{"0", "1", "0", "0"},
		{"0", "0", "1", "0"},
		{"0", "0", "0", "1"},
	}
	tests := []struct {
		name   string
		rows   [][]string
		coords []string
		want   error
	}{
		{"three rows", minkowski[:3], coords, ErrBadShape},
		{"short key", minkowski, coords[:3], ErrBadKey},
		{"repeated key", minkowski, []string{"t", "x", "x", "z"}, ErrBadKey},
		{"asymmetric", asym, coords, ErrAsymmetric},
		{"bad entry", [][]string{{"-1", "0", "0", "0"}, {"0", "1.5", "0", "0"}, minkowski[2], minkowski[3]}, coords, sym.ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRows("bad", tt.rows, tt.coords)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	m, err := FromRows("degenerate", degenerate, coords)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.CheckInvertible(); !errors.Is(err, ErrDegenerate) {
		t.Errorf("CheckInvertible = %v, want ErrDegenerate", err)
	}
}

func TestEntryErrorPosition(t *testing.T) {
	asym := [][]string{
		{"-1", "0", "0", "0"},
		{"0", "1", "0", "0"},
		{"0", "0", "1", "w"},
		{"0", "0", "0", "1"},
	}
	_, err := FromRows("bad", asym, []string{"t", "x", "y", "z"})
	var entry *EntryError
	if !errors.As(err, &entry) {
		t.Fatalf("expected EntryError, got %v", err)
	}
	if entry.Row != 2 || entry.Col != 3 {
		t.Errorf("position = (%d, %d)", entry.Row, entry.Col)
	}
}

func TestPermute(t *testing.T) {
	rows := [][]string{
		{"-1", "0", "0", "0"},
		{"0", "1", "0", "0"},
		{"0", "0", "r^2", "0"},
		{"0", "0", "0", "r^2*sin(theta)^2"},
	}
	m, err := FromRows("spherical", rows, []string{"t", "r", "theta", "phi"})
	if err != nil {
		t.Fatal(err)
	}
	p, err := m.Permute([]int{3, 2, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if p.Coord(0) != "phi" || !p.At(0, 0).Equal(m.At(3, 3)) {
		t.Errorf("permuted metric %s", p)
	}
	if _, err := m.Permute([]int{0, 0, 1, 2}); err == nil {
		t.Error("expected error for repeated permutation entry")
	}
}

func TestMatrixIsCopy(t *testing.T) {
	m, err := FromRows("minkowski", minkowski, []string{"t", "x", "y", "z"})
	if err != nil {
		t.Fatal(err)
	}
	g := m.Matrix()
	g.Set(0, 0, sym.N(5))
	if !m.At(0, 0).Equal(sym.N(-1)) {
		t.Error("metric mutated through Matrix()")
	}
}
