package resolver

import (
	"errors"
	"testing"

	"github.com/noteweave/noteweave/internal/model"
)

type fakeLookup struct {
	titles  map[string][]model.NoteID
	aliases map[string][]model.NoteID
}

func (f fakeLookup) IDsByTitle(title string) ([]model.NoteID, error) {
	return f.titles[title], nil
}

func (f fakeLookup) IDsByAlias(alias string) ([]model.NoteID, error) {
	return f.aliases[alias], nil
}

func TestResolveSingleTitleMatch(t *testing.T) {
	lookup := fakeLookup{titles: map[string][]model.NoteID{"Hello": {"id1"}}}
	id, err := Resolve(lookup, "Hello", ModeBoth, PreferTitle)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != "id1" {
		t.Fatalf("id = %q", id)
	}
}

func TestResolveSingleAliasMatch(t *testing.T) {
	lookup := fakeLookup{aliases: map[string][]model.NoteID{"nick": {"id2"}}}
	id, err := Resolve(lookup, "nick", ModeBoth, PreferTitle)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != "id2" {
		t.Fatalf("id = %q", id)
	}
}

func TestResolveNotFound(t *testing.T) {
	lookup := fakeLookup{}
	_, err := Resolve(lookup, "nothing", ModeBoth, PreferTitle)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveAmbiguousMultipleTitles(t *testing.T) {
	lookup := fakeLookup{titles: map[string][]model.NoteID{"Dup": {"id1", "id2"}}}
	_, err := Resolve(lookup, "Dup", ModeBoth, PreferTitle)
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}
}

func TestResolvePreferTieBreak(t *testing.T) {
	lookup := fakeLookup{
		titles:  map[string][]model.NoteID{"Shared": {"title-id"}},
		aliases: map[string][]model.NoteID{"Shared": {"alias-id"}},
	}
	id, err := Resolve(lookup, "Shared", ModeBoth, PreferTitle)
	if err != nil || id != "title-id" {
		t.Fatalf("prefer title: id=%q err=%v", id, err)
	}
	id, err = Resolve(lookup, "Shared", ModeBoth, PreferAlias)
	if err != nil || id != "alias-id" {
		t.Fatalf("prefer alias: id=%q err=%v", id, err)
	}
}

func TestResolveModeRestriction(t *testing.T) {
	lookup := fakeLookup{
		titles:  map[string][]model.NoteID{"X": {"title-id"}},
		aliases: map[string][]model.NoteID{"X": {"alias-id"}},
	}
	id, err := Resolve(lookup, "X", ModeTitle, PreferTitle)
	if err != nil || id != "title-id" {
		t.Fatalf("mode title: id=%q err=%v", id, err)
	}
	id, err = Resolve(lookup, "X", ModeAlias, PreferTitle)
	if err != nil || id != "alias-id" {
		t.Fatalf("mode alias: id=%q err=%v", id, err)
	}
}
