package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/noteweave/noteweave/internal/header"
	"github.com/noteweave/noteweave/internal/model"
)

// ErrDestinationExists is returned by Apply under OnConflictFail when a
// planned destination file already exists.
var ErrDestinationExists = errors.New("importer: destination already exists")

// ApplyOptions configures Apply.
type ApplyOptions struct {
	Operation  Operation
	OnConflict ConflictPolicy
	DryRun     bool
}

// Apply executes plan against dstVault: for every StatusOK item, it
// reads the source file, injects id/title/aliases into its frontmatter,
// writes it atomically to "<id>.md" in dstVault, and records a
// ManifestEntry. Items with StatusConflict or StatusError are skipped
// entirely, exactly as planned.
func Apply(plan Plan, dstVault string, opts ApplyOptions) (Manifest, error) {
	manifest := Manifest{
		Version:   1,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		SrcDir:    plan.Src,
		DstVault:  dstVault,
		Operation: opts.Operation,
	}

	if !opts.DryRun {
		if err := os.MkdirAll(dstVault, 0o755); err != nil {
			return manifest, fmt.Errorf("importer: creating vault dir: %w", err)
		}
	}

	for i := range plan.Items {
		item := &plan.Items[i]
		if item.Status != StatusOK {
			continue
		}

		srcPath := filepath.Join(plan.Src, item.Src)
		dstPath := filepath.Join(dstVault, item.ID+".md")

		if _, err := os.Stat(dstPath); err == nil {
			switch opts.OnConflict {
			case OnConflictSkip:
				continue
			case OnConflictFail:
				return manifest, fmt.Errorf("%w: %s", ErrDestinationExists, dstPath)
			case OnConflictNewID:
				base := item.ID
				counter := 1
				for {
					candidate := fmt.Sprintf("%s_%d", base, counter)
					candidatePath := filepath.Join(dstVault, candidate+".md")
					if _, err := os.Stat(candidatePath); os.IsNotExist(err) {
						item.ID = candidate
						dstPath = candidatePath
						break
					}
					counter++
				}
			}
		}

		content, err := os.ReadFile(srcPath)
		if err != nil {
			return manifest, fmt.Errorf("importer: reading %s: %w", srcPath, err)
		}

		updated, err := injectFrontmatter(string(content), item.ID, item.Title, item.Aliases)
		if err != nil {
			return manifest, fmt.Errorf("importer: injecting frontmatter into %s: %w", srcPath, err)
		}

		if opts.DryRun {
			continue
		}

		var backupPath string
		if _, err := os.Stat(dstPath); err == nil {
			backupPath = fmt.Sprintf("%s.bak~%s", dstPath, uuid.NewString())
			if err := copyFile(dstPath, backupPath); err != nil {
				return manifest, fmt.Errorf("importer: backing up %s: %w", dstPath, err)
			}
		}

		if err := writeAtomic(dstPath, updated); err != nil {
			return manifest, fmt.Errorf("importer: writing %s: %w", dstPath, err)
		}

		action := ManifestAction(opts.Operation)
		if backupPath != "" {
			action = ActionCreate
		}
		manifest.Entries = append(manifest.Entries, ManifestEntry{
			Action: action,
			Src:    srcPath,
			Dst:    dstPath,
			Backup: backupPath,
		})

		if opts.Operation == OpMove {
			_ = os.Remove(srcPath)
		}
	}

	return manifest, nil
}

// injectFrontmatter decodes any existing frontmatter on content, sets
// id/core/title/core/aliases, and re-encodes.
func injectFrontmatter(content, id, title string, aliases []string) (string, error) {
	meta, body, err := header.Decode(content)
	if err != nil {
		meta, body = model.MetaBag{}, content
	}
	meta["id"] = id
	meta["core/title"] = title
	if len(aliases) > 0 {
		meta["core/aliases"] = aliases
	}
	return header.Encode(meta, body)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

func writeAtomic(path, contents string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(contents), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
