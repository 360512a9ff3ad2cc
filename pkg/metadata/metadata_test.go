package metadata

import (
	"errors"
	"strings"
	"testing"
)

const sample = "id: abc\nvalues:\n  - a\n  - b\n"

func TestSignAndVerify(t *testing.T) {
	signed := Sign(sample, "model", "1")

	if !strings.Contains(signed, TagStart) || !strings.Contains(signed, TagEnd) {
		t.Fatalf("signed content missing metadata block:\n%s", signed)
	}

	meta, err := Verify(signed)
	if err != nil {
		t.Fatalf("Verify returned unexpected error: %v", err)
	}

	if meta.Kind != "model" || meta.Version != "1" {
		t.Errorf("metadata = %+v, want kind=model version=1", meta)
	}

	if meta.LastModify.IsZero() {
		t.Error("LastModify not parsed")
	}
}

func TestSign_Idempotent(t *testing.T) {
	once := Sign(sample, "model", "1")
	twice := Sign(once, "model", "1")

	if strings.Count(twice, TagStart) != 1 {
		t.Errorf("re-signing duplicated the block:\n%s", twice)
	}

	_, cleanOnce := Extract(once)
	_, cleanTwice := Extract(twice)

	if cleanOnce != cleanTwice {
		t.Errorf("clean content changed on re-sign: %q vs %q", cleanOnce, cleanTwice)
	}
}

func TestVerify_Errors(t *testing.T) {
	if _, err := Verify(sample); !errors.Is(err, ErrNoMetadataBlock) {
		t.Errorf("unsigned content error = %v, want ErrNoMetadataBlock", err)
	}

	noHash := sample + "\n" + TagStart + "\n# VERSION: 1\n" + TagEnd + "\n"
	if _, err := Verify(noHash); !errors.Is(err, ErrNoHashFound) {
		t.Errorf("missing hash error = %v, want ErrNoHashFound", err)
	}

	tampered := strings.Replace(Sign(sample, "model", "1"), "- b", "- c", 1)
	if _, err := Verify(tampered); !errors.Is(err, ErrHashMismatch) {
		t.Errorf("tampered content error = %v, want ErrHashMismatch", err)
	}
}
