package slicer

import (
	"testing"

	"github.com/noteweave/noteweave/internal/model"
	"github.com/noteweave/noteweave/internal/parser"
)

func buildNote(body string) *model.Note {
	return &model.Note{
		ID:   "note1",
		Meta: model.MetaBag{},
		Body: parser.Parse("note1", body),
	}
}

func TestSliceByAnchorNil(t *testing.T) {
	note := buildNote("# Title\n\nBody text.\n")
	rng := SliceByAnchor(note, nil)
	if Extract(note.Body.Raw, rng) != "# Title\n\nBody text." {
		t.Fatalf("full-body extract = %q", Extract(note.Body.Raw, rng))
	}
}

func TestSliceByHeadingAnchor(t *testing.T) {
	body := "# Title\n\nIntro.\n\n## Section One\n\nContent one.\n\n## Section Two\n\nContent two.\n"
	note := buildNote(body)

	rng := SliceByAnchor(note, &model.Anchor{Kind: model.AnchorHeading, Value: "section-one"})
	got := Extract(note.Body.Raw, rng)
	want := "## Section One\n\nContent one."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSliceByHeadingAnchorLastSection(t *testing.T) {
	body := "## Section One\n\nOne.\n\n## Section Two\n\nTwo.\n"
	note := buildNote(body)
	rng := SliceByAnchor(note, &model.Anchor{Kind: model.AnchorHeading, Value: "section-two"})
	got := Extract(note.Body.Raw, rng)
	if got != "## Section Two\n\nTwo." {
		t.Fatalf("got %q", got)
	}
}

func TestSliceByBlockLabelAnchor(t *testing.T) {
	body := "A paragraph with a label. ^mylabel\n\nAnother paragraph.\n"
	note := buildNote(body)
	rng := SliceByAnchor(note, &model.Anchor{Kind: model.AnchorBlock, Value: "mylabel"})
	got := Extract(note.Body.Raw, rng)
	if got != "A paragraph with a label. ^mylabel" {
		t.Fatalf("got %q", got)
	}
}

func TestSliceByBlockLabelAnchorFence(t *testing.T) {
	body := "# T\n\n```py ^code\ndef f():\n pass\n```\n\ntail\n"
	note := buildNote(body)
	rng := SliceByAnchor(note, &model.Anchor{Kind: model.AnchorBlock, Value: "code"})
	got := string([]rune(note.Body.Raw)[rng.Start:rng.End])
	if got != "```py ^code\ndef f():\n pass\n```\n" {
		t.Fatalf("got %q", got)
	}
}

func TestSliceByAnchorNotFound(t *testing.T) {
	note := buildNote("# Title\n\nBody.\n")
	rng := SliceByAnchor(note, &model.Anchor{Kind: model.AnchorHeading, Value: "missing"})
	if rng.Start != rng.End {
		t.Fatalf("expected empty range for missing anchor, got %#v", rng)
	}
}

func TestExtractClampsOutOfBoundsRange(t *testing.T) {
	if got := Extract("short", model.Range{Start: -5, End: 1000}); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := Extract("short", model.Range{Start: 3, End: 1}); got != "" {
		t.Fatalf("expected empty for inverted range, got %q", got)
	}
}
