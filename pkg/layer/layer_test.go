package layer

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/matzehuels/vmslayers/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Layer
		wantErr bool
	}{
		{"simple", "1:2", Layer{ID: 1, Version: 2}, false},
		{"zero", "0:0", Layer{}, false},
		{"whitespace", " 5 : 6 ", Layer{ID: 5, Version: 6}, false},

		{"empty", "", Layer{}, true},
		{"no separator", "12", Layer{}, true},
		{"bad id", "x:2", Layer{}, true},
		{"bad version", "1:y", Layer{}, true},
		{"negative id", "-1:2", Layer{}, true},
		{"negative version", "1:-2", Layer{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidLayer) {
					t.Errorf("GetCode() = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidLayer)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	l := New(42, 7)
	if l.String() != "42:7" {
		t.Errorf("String() = %q, want %q", l.String(), "42:7")
	}
	if got := MustParse(l.String()); got != l {
		t.Errorf("MustParse(String()) = %v, want %v", got, l)
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on bad input")
		}
	}()
	MustParse("bogus")
}

func TestJSONText(t *testing.T) {
	d := NewDependency(New(1, 2), New(3, 4))
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"layer":"1:2","depends_on":["3:4"]}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back Dependency
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if back.Layer != d.Layer || !slices.Equal(back.DependsOn, d.DependsOn) {
		t.Errorf("Unmarshal = %+v, want %+v", back, d)
	}
}

func TestCompare(t *testing.T) {
	layers := []Layer{New(3, 1), New(1, 9), New(1, 2), New(2, 0)}
	Sort(layers)
	want := []Layer{New(1, 2), New(1, 9), New(2, 0), New(3, 1)}
	if !slices.Equal(layers, want) {
		t.Errorf("Sort() = %v, want %v", layers, want)
	}
}

func TestSet(t *testing.T) {
	s := NewSet(New(1, 2))
	if !s.Add(New(3, 4)) {
		t.Error("Add of new layer should return true")
	}
	if s.Add(New(1, 2)) {
		t.Error("Add of existing layer should return false")
	}
	if !s.ContainsAll([]Layer{New(1, 2), New(3, 4)}) {
		t.Error("ContainsAll should be true for members")
	}
	if s.ContainsAll([]Layer{New(1, 2), New(5, 6)}) {
		t.Error("ContainsAll should be false when one layer is missing")
	}
	if !s.ContainsAll(nil) {
		t.Error("ContainsAll(nil) should be true")
	}

	var empty Set
	if empty.Has(New(1, 2)) {
		t.Error("nil set should not contain anything")
	}
	if got := empty.Sorted(); got == nil || len(got) != 0 {
		t.Errorf("nil set Sorted() = %v, want empty non-nil slice", got)
	}
	if !NewSet(New(1, 2), New(3, 4)).Equal(NewSet(New(3, 4), New(1, 2))) {
		t.Error("Equal should ignore insertion order")
	}
}

func TestDependencyKey(t *testing.T) {
	a := NewDependency(New(1, 2), New(5, 6), New(3, 4), New(3, 4))
	b := NewDependency(New(1, 2), New(3, 4), New(5, 6))
	if a.Key() != b.Key() {
		t.Errorf("Key() = %q and %q, want equal", a.Key(), b.Key())
	}
	if a.Key() != "1:2<-3:4,5:6" {
		t.Errorf("Key() = %q, want %q", a.Key(), "1:2<-3:4,5:6")
	}
	if NewDependency(New(1, 2)).Key() == a.Key() {
		t.Error("different requirement sets must have different keys")
	}
}

func TestOfferingKeyOrderIndependent(t *testing.T) {
	x := NewDependency(New(1, 2), New(3, 4))
	y := NewDependency(New(3, 4))
	o1 := Offering{Publisher: "a", Dependencies: []Dependency{x, y}}
	o2 := Offering{Publisher: "b", Dependencies: []Dependency{y, x, y}}
	if o1.Key() != o2.Key() {
		t.Errorf("Key() = %q and %q, want equal", o1.Key(), o2.Key())
	}
}

func TestOfferingValidate(t *testing.T) {
	good := NewOffering(NewDependency(New(1, 2), New(3, 4)))
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	bad := NewOffering(
		NewDependency(New(1, 2)),
		NewDependency(New(3, 4), New(-1, 0)),
	)
	err := bad.Validate()
	if err == nil {
		t.Fatal("Validate() should reject negative dependency id")
	}
	if !errors.Is(err, errors.ErrCodeInvalidOffering) {
		t.Errorf("GetCode() = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidOffering)
	}

	badName := Offering{Publisher: "bad\nname"}
	if err := badName.Validate(); !errors.Is(err, errors.ErrCodeInvalidPublisher) {
		t.Errorf("Validate() error = %v, want %v", err, errors.ErrCodeInvalidPublisher)
	}
}

func TestOfferingLayers(t *testing.T) {
	o := NewOffering(
		NewDependency(New(3, 4), New(1, 2)),
		NewDependency(New(1, 2)),
		NewDependency(New(3, 4)),
	)
	want := []Layer{New(1, 2), New(3, 4)}
	if got := o.Layers(); !slices.Equal(got, want) {
		t.Errorf("Layers() = %v, want %v", got, want)
	}
}

func TestOfferingClone(t *testing.T) {
	o := Offering{Publisher: "nav", Dependencies: []Dependency{NewDependency(New(1, 0), New(2, 0))}}
	c := o.Clone()
	o.Dependencies[0].DependsOn[0] = New(9, 9)
	o.Dependencies[0].Layer = New(8, 8)

	if c.Publisher != "nav" || c.Dependencies[0].Layer != New(1, 0) || c.Dependencies[0].DependsOn[0] != New(2, 0) {
		t.Errorf("Clone() = %+v, want it unaffected by changes to the original", c)
	}
	if got := (Offering{}).Clone(); got.Dependencies != nil {
		t.Errorf("Clone() of empty offering = %+v, want nil dependencies", got)
	}
}
