package domain

import "testing"

func TestPathMatrix_RowAliasesBacking(t *testing.T) {
	m := NewPathMatrix(2, 3)
	m.Row(1)[2] = 7

	if m.At(1, 2) != 7 {
		t.Errorf("row write not visible through At, got %f", m.At(1, 2))
	}
}

func TestPathMatrix_ColumnCopies(t *testing.T) {
	m := NewPathMatrix(3, 2)
	m.Set(0, 1, 10)
	m.Set(1, 1, 20)
	m.Set(2, 1, 30)

	col := m.Column(1, nil)
	col[0] = 999

	if m.At(0, 1) != 10 {
		t.Errorf("Column must copy, not alias; matrix mutated to %f", m.At(0, 1))
	}
	if col[1] != 20 || col[2] != 30 {
		t.Errorf("column values = %v", col)
	}
}

func TestPathMatrix_CloneIsDeep(t *testing.T) {
	m := NewPathMatrix(1, 2)
	m.Set(0, 0, 5)

	c := m.Clone()
	c.Set(0, 0, 6)

	if m.At(0, 0) != 5 {
		t.Errorf("clone shares backing storage")
	}
}

func TestPathMatrix_AddSubInPlace(t *testing.T) {
	a := NewPathMatrix(1, 2)
	b := NewPathMatrix(1, 2)
	a.Set(0, 0, 1)
	a.Set(0, 1, 2)
	b.Set(0, 0, 10)
	b.Set(0, 1, 20)

	a.AddInPlace(b)
	if a.At(0, 0) != 11 || a.At(0, 1) != 22 {
		t.Errorf("add: got %v", a.Data)
	}

	a.SubInPlace(b)
	if a.At(0, 0) != 1 || a.At(0, 1) != 2 {
		t.Errorf("sub: got %v", a.Data)
	}
}

func TestMustSameShape_PanicsOnMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on shape mismatch")
		}
	}()
	MustSameShape(NewPathMatrix(2, 3), NewPathMatrix(3, 2))
}
