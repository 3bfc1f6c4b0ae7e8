package catalog

import "testing"

func TestDatasetVersionValidate(t *testing.T) {
	v := DatasetVersion{ID: "v", DatasetID: "d", Ordinal: 1}
	if err := v.Validate(); err != nil {
		t.Fatalf("Validate()=%v", err)
	}
	v.Ordinal = 0
	if err := v.Validate(); err == nil {
		t.Fatalf("Validate() expected error for ordinal 0")
	}
	v.Ordinal = 1
	v.SizeBytes = -1
	if err := v.Validate(); err == nil {
		t.Fatalf("Validate() expected error for negative size")
	}
}

func TestDatasetVersionFilename(t *testing.T) {
	cases := map[string]string{
		"datasets/abc/v1/train.parquet": "train.parquet",
		"train.csv":                     "train.csv",
		"":                              "",
		"datasets/abc/":                 "abc",
	}
	for key, want := range cases {
		if got := (DatasetVersion{ObjectKey: key}).Filename(); got != want {
			t.Fatalf("Filename(%q)=%q, want %q", key, got, want)
		}
	}
}
