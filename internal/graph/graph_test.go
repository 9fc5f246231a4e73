package graph

import "testing"

func TestRecordMarshalJSONPreservesKeyOrder(t *testing.T) {
	record := Record{
		Keys: []string{"name", "vol"},
		Values: map[string]any{
			"vol":  240,
			"name": "Latte",
		},
	}
	got, err := record.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"name":"Latte","vol":240}`
	if string(got) != want {
		t.Fatalf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestRecordMarshalJSONNestedProperties(t *testing.T) {
	record := Record{
		Keys: []string{"c"},
		Values: map[string]any{
			"c": map[string]any{"name": "Espresso"},
		},
	}
	got, err := record.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"c":{"name":"Espresso"}}`
	if string(got) != want {
		t.Fatalf("MarshalJSON() = %s, want %s", got, want)
	}
}
