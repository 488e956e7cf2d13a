package nav

import "testing"

func TestKeyHashIgnoresReceiptTime(t *testing.T) {
	a := validRow()
	b := validRow()
	b[FieldPCTime-1] = "2024-03-01 12:00:09.999"
	if KeyHash(a) != KeyHash(b) {
		t.Fatalf("rows differing only in receipt time must share a key")
	}
}

func TestKeyHashSensitiveToEveryKeyField(t *testing.T) {
	base := KeyHash(validRow())
	for _, pos := range KeyFields {
		row := validRow()
		row[pos-1] = row[pos-1] + "x"
		if KeyHash(row) == base {
			t.Fatalf("changing field %d did not change the key", pos)
		}
	}
}

func TestKeyHashFieldBoundaries(t *testing.T) {
	// Length prefixes keep adjacent fields from aliasing: ("AB","") and
	// ("A","B") in neighboring key positions must hash differently.
	a := validRow()
	a[FieldShipName-1] = "AB"
	a[FieldShipType-1] = ""
	b := validRow()
	b[FieldShipName-1] = "A"
	b[FieldShipType-1] = "B"
	if KeyHash(a) == KeyHash(b) {
		t.Fatalf("adjacent key fields alias under the hash layout")
	}
}
