package importer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/noteweave/noteweave/internal/model"
	"github.com/noteweave/noteweave/internal/vault"
)

// Severity classifies an audit finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is a single audit issue.
type Finding struct {
	NoteID   model.NoteID
	Severity Severity
	Message  string
}

// Report is the complete output of AuditVault.
type Report struct {
	Findings        []Finding
	TotalNotes      int
	TotalLinks      int
	DeadLinks       int
	UnknownAnchors  int
	DuplicateLabels int
	UnmigratedLinks int
}

// HasErrors reports whether any finding has Severity error.
func (r Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

var (
	unmigratedWikiRe = regexp.MustCompile(`\[\[([^\]|#]+)`)
	looksLikeIDRe    = regexp.MustCompile(`^[a-f0-9_-]+$`)
	unmigratedMDRe   = regexp.MustCompile(`\]\(([^)]+\.md[^)]*)\)`)
)

// AuditVault walks every note in v, reporting dead links, links whose
// target exists but whose anchor does not, duplicate block labels
// within a note, and (when strict) wiki/MD links that still look
// title-addressed rather than id-addressed.
func AuditVault(v *vault.Vault, strict bool) (Report, error) {
	var report Report

	ids, err := v.ListIDs()
	if err != nil {
		return report, fmt.Errorf("importer: listing vault: %w", err)
	}
	report.TotalNotes = len(ids)
	allIDs := make(map[model.NoteID]bool, len(ids))
	for _, id := range ids {
		allIDs[id] = true
	}

	for _, id := range ids {
		note, err := v.Get(id)
		if err != nil || note == nil {
			continue
		}

		seenLabels := map[string]bool{}
		for _, b := range note.Body.Blocks {
			if b.Label == nil {
				continue
			}
			if seenLabels[b.Label.Name] {
				report.DuplicateLabels++
				report.Findings = append(report.Findings, Finding{
					NoteID:   id,
					Severity: SeverityError,
					Message:  fmt.Sprintf("duplicate block label: ^%s", b.Label.Name),
				})
			} else {
				seenLabels[b.Label.Name] = true
			}
		}

		for _, link := range note.Body.Links {
			report.TotalLinks++
			targetID := link.Target.ID

			if !allIDs[targetID] {
				report.DeadLinks++
				report.Findings = append(report.Findings, Finding{
					NoteID:   id,
					Severity: SeverityError,
					Message:  fmt.Sprintf("dead link to: %s", targetID),
				})
				continue
			}

			if link.Target.Anchor == nil {
				continue
			}
			targetNote, err := v.Get(targetID)
			if err != nil || targetNote == nil {
				continue
			}
			if !anchorExists(targetNote, link.Target.Anchor) {
				report.UnknownAnchors++
				anchorRepr := link.Target.Anchor.Value
				if link.Target.Anchor.Kind == model.AnchorBlock {
					anchorRepr = "^" + anchorRepr
				}
				report.Findings = append(report.Findings, Finding{
					NoteID:   id,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("unknown anchor in %s: #%s", targetID, anchorRepr),
				})
			}
		}

		if strict {
			auditUnmigrated(&report, id, note.Body.Raw)
		}
	}

	return report, nil
}

func anchorExists(note *model.Note, anchor *model.Anchor) bool {
	for _, b := range note.Body.Blocks {
		switch anchor.Kind {
		case model.AnchorBlock:
			if b.Label != nil && b.Label.Name == anchor.Value {
				return true
			}
		case model.AnchorHeading:
			if b.HeadingSlug == anchor.Value {
				return true
			}
		}
	}
	return false
}

func auditUnmigrated(report *Report, id model.NoteID, raw string) {
	for _, m := range unmigratedWikiRe.FindAllStringSubmatch(raw, -1) {
		target := strings.TrimSpace(m[1])
		if strings.Contains(target, " ") || !looksLikeIDRe.MatchString(target) {
			report.UnmigratedLinks++
			report.Findings = append(report.Findings, Finding{
				NoteID:   id,
				Severity: SeverityError,
				Message:  fmt.Sprintf("un-migrated wiki link: [[%s]]", target),
			})
		}
	}
	for _, m := range unmigratedMDRe.FindAllStringSubmatch(raw, -1) {
		path := m[1]
		if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
			report.UnmigratedLinks++
			report.Findings = append(report.Findings, Finding{
				NoteID:   id,
				Severity: SeverityError,
				Message:  fmt.Sprintf("un-migrated md link: %s", path),
			})
		}
	}
}
