package domain

import "testing"

func TestMetadataMap_ValueNilIsEmptyObject(t *testing.T) {
	var m MetadataMap
	v, err := m.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != "{}" {
		t.Fatalf("expected {}, got %v", v)
	}
}

func TestMetadataMap_ScanRoundTrip(t *testing.T) {
	in := MetadataMap{"img_width": "300", "img_height": "500"}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var out MetadataMap
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if out["img_width"] != "300" || out["img_height"] != "500" {
		t.Fatalf("round-trip mismatch: %v", out)
	}
}

func TestMetadataMap_ScanNullAndEmpty(t *testing.T) {
	var m MetadataMap
	if err := m.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if m == nil || len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
	if err := m.Scan([]byte("")); err != nil {
		t.Fatalf("Scan(empty): %v", err)
	}
}

func TestMetadataMap_ScanRejectsGarbage(t *testing.T) {
	var m MetadataMap
	if err := m.Scan("not json"); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
	if err := m.Scan(42); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
