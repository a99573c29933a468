// Package resolver resolves free text (a note title or alias) to a note
// id through the durable index, applying the ambiguity rules: a single
// match wins outright; when both an alias and a title match, "prefer"
// breaks the tie; zero matches is NotFound; more than one match in
// either category is Ambiguous.
package resolver

import (
	"errors"
	"fmt"

	"github.com/noteweave/noteweave/internal/model"
)

// ErrNotFound means no alias or title matched text.
var ErrNotFound = errors.New("resolver: no match")

// ErrAmbiguous means more than one candidate matched and no Prefer rule
// broke the tie.
var ErrAmbiguous = errors.New("resolver: ambiguous match")

// Mode restricts which categories of text are searched.
type Mode string

const (
	ModeTitle Mode = "title"
	ModeAlias Mode = "alias"
	ModeBoth  Mode = "both"
)

// Prefer breaks a one-title/one-alias tie.
type Prefer string

const (
	PreferTitle Prefer = "title"
	PreferAlias Prefer = "alias"
)

// Lookup is the minimal query surface resolver needs from the index.
type Lookup interface {
	IDsByTitle(title string) ([]model.NoteID, error)
	IDsByAlias(alias string) ([]model.NoteID, error)
}

// Resolve finds the note id matching text according to mode and prefer.
func Resolve(lookup Lookup, text string, mode Mode, prefer Prefer) (model.NoteID, error) {
	var aliasIDs, titleIDs []model.NoteID
	var err error

	if mode == ModeAlias || mode == ModeBoth {
		aliasIDs, err = lookup.IDsByAlias(text)
		if err != nil {
			return "", fmt.Errorf("resolver: alias lookup: %w", err)
		}
	}
	if mode == ModeTitle || mode == ModeBoth {
		titleIDs, err = lookup.IDsByTitle(text)
		if err != nil {
			return "", fmt.Errorf("resolver: title lookup: %w", err)
		}
	}

	switch {
	case len(aliasIDs) == 1 && len(titleIDs) == 0:
		return aliasIDs[0], nil
	case len(titleIDs) == 1 && len(aliasIDs) == 0:
		return titleIDs[0], nil
	case len(aliasIDs) == 1 && len(titleIDs) == 1:
		if prefer == PreferTitle {
			return titleIDs[0], nil
		}
		return aliasIDs[0], nil
	case len(aliasIDs)+len(titleIDs) == 0:
		return "", fmt.Errorf("%w: %q", ErrNotFound, text)
	default:
		return "", fmt.Errorf("%w: %q", ErrAmbiguous, text)
	}
}
