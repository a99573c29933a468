package header

import (
	"errors"
	"reflect"
	"testing"

	"github.com/noteweave/noteweave/internal/model"
)

func TestDecodeNoFrontmatter(t *testing.T) {
	meta, body, err := Decode("just a body\nwith no header\n")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(meta) != 0 {
		t.Fatalf("expected empty meta, got %#v", meta)
	}
	if body != "just a body\nwith no header\n" {
		t.Fatalf("body mismatch: %q", body)
	}
}

func TestDecodeWithFrontmatter(t *testing.T) {
	text := "---\nid: abc123\ncore/title: Hello\n---\nBody text.\n"
	meta, body, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if meta.GetString("id") != "abc123" {
		t.Fatalf("id = %q", meta.GetString("id"))
	}
	if meta.GetString("core/title") != "Hello" {
		t.Fatalf("core/title = %q", meta.GetString("core/title"))
	}
	if body != "Body text.\n" {
		t.Fatalf("body mismatch: %q", body)
	}
}

func TestDecodeMalformedHeader(t *testing.T) {
	_, _, err := Decode("---\nid: abc\nno closing fence\n")
	if !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("expected ErrMalformedHeader, got %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	meta := model.MetaBag{"id": "abc123", "core/title": "Hello"}
	out, err := Encode(meta, "Body text.\n")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, body, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode after Encode: %v", err)
	}
	if decoded.GetString("id") != "abc123" || decoded.GetString("core/title") != "Hello" {
		t.Fatalf("round trip mismatch: %#v", decoded)
	}
	if body != "Body text.\n" {
		t.Fatalf("body mismatch after round trip: %q", body)
	}
}

func TestEncodeEmptyMetaIsNoop(t *testing.T) {
	out, err := Encode(model.MetaBag{}, "just body\n")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if out != "just body\n" {
		t.Fatalf("expected body unchanged, got %q", out)
	}
}

func TestDecodeOrderedPreservesKeyOrder(t *testing.T) {
	text := "---\nzeta: 1\nalpha: 2\nid: abc\n---\nBody\n"
	meta, keys, body, err := DecodeOrdered(text)
	if err != nil {
		t.Fatalf("DecodeOrdered: %v", err)
	}
	want := []string{"zeta", "alpha", "id"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("key order = %v, want %v", keys, want)
	}

	out, err := EncodeOrdered(meta, keys, body)
	if err != nil {
		t.Fatalf("EncodeOrdered: %v", err)
	}
	_, gotKeys, gotBody, err := DecodeOrdered(out)
	if err != nil {
		t.Fatalf("DecodeOrdered after EncodeOrdered: %v", err)
	}
	if !reflect.DeepEqual(gotKeys, want) {
		t.Fatalf("round-tripped key order = %v, want %v", gotKeys, want)
	}
	if gotBody != "Body\n" {
		t.Fatalf("body mismatch: %q", gotBody)
	}
}

func TestEncodeOrderedAppendsNewKeys(t *testing.T) {
	meta := model.MetaBag{"id": "abc", "core/title": "New"}
	out, err := EncodeOrdered(meta, []string{"id"}, "Body\n")
	if err != nil {
		t.Fatalf("EncodeOrdered: %v", err)
	}
	_, keys, _, err := DecodeOrdered(out)
	if err != nil {
		t.Fatalf("DecodeOrdered: %v", err)
	}
	if len(keys) != 2 || keys[0] != "id" {
		t.Fatalf("expected id first with a second trailing key, got %v", keys)
	}
}
