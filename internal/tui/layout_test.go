package tui

import "testing"

func TestCalculateLayoutSplitsListAndPreview(t *testing.T) {
	m := &Model{width: 120, height: 40}
	layout := m.calculateLayout()

	if layout.ListWidth != defaultListWidth {
		t.Fatalf("ListWidth = %d, want %d", layout.ListWidth, defaultListWidth)
	}
	if layout.PreviewWidth != 120-defaultListWidth {
		t.Fatalf("PreviewWidth = %d, want %d", layout.PreviewWidth, 120-defaultListWidth)
	}
	if layout.ContentHeight != 39 {
		t.Fatalf("ContentHeight = %d, want 39", layout.ContentHeight)
	}
}

func TestCalculateLayoutNarrowTerminalShrinksListBelowDefault(t *testing.T) {
	m := &Model{width: 30, height: 10}
	layout := m.calculateLayout()

	if layout.ListWidth != 30/listWidthDivisor {
		t.Fatalf("ListWidth = %d, want %d", layout.ListWidth, 30/listWidthDivisor)
	}
}

func TestCalculateLayoutNeverNegative(t *testing.T) {
	m := &Model{width: 0, height: 0}
	layout := m.calculateLayout()

	if layout.ListWidth < 0 || layout.PreviewWidth < 0 || layout.ContentHeight < 0 {
		t.Fatalf("expected non-negative dimensions, got %+v", layout)
	}
}

func TestClampKeepsCursorWithinVisibleRange(t *testing.T) {
	idx := buildTestIndex(t)
	m, err := New(idx, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.visible = []entry{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	m.cursor = 0

	m.cursor = clamp(m.cursor-1, 0, len(m.visible)-1)
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 (clamped)", m.cursor)
	}

	m.cursor = clamp(m.cursor+10, 0, len(m.visible)-1)
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2 (clamped)", m.cursor)
	}
}
