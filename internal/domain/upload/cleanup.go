package upload

import (
	"context"
	"log"
	"time"
)

// ReferenceSource lists image names still referenced by stored records.
type ReferenceSource interface {
	ImageFileNames(ctx context.Context) ([]string, error)
}

// CleanupResult summarises one orphan sweep.
type CleanupResult struct {
	Scanned  int
	Orphaned []string
	Deleted  int
	Failed   []string
}

// CleanupService removes image files no product points at, e.g. files left
// behind when a process died between writing the image and saving the row.
type CleanupService struct {
	store *Store
	refs  ReferenceSource
	now   func() time.Time
}

func NewCleanupService(store *Store, refs ReferenceSource) *CleanupService {
	return &CleanupService{store: store, refs: refs, now: time.Now}
}

// RemoveOrphans deletes unreferenced files older than grace.
// Younger files are skipped: they may belong to a create still in flight.
func (c *CleanupService) RemoveOrphans(ctx context.Context, grace time.Duration, dryRun bool) (*CleanupResult, error) {
	startTime := c.now()

	names, err := c.refs.ImageFileNames(ctx)
	if err != nil {
		log.Printf("image cleanup: failed to load referenced names: %v", err)
		return nil, err
	}
	referenced := make(map[string]struct{}, len(names))
	for _, n := range names {
		referenced[n] = struct{}{}
	}

	images, err := c.store.List(ctx)
	if err != nil {
		log.Printf("image cleanup: failed to list images: %v", err)
		return nil, err
	}

	res := &CleanupResult{Scanned: len(images)}
	cutoff := startTime.Add(-grace)
	for _, img := range images {
		if _, ok := referenced[img.Name]; ok {
			continue
		}
		if img.ModTime.After(cutoff) {
			continue
		}
		res.Orphaned = append(res.Orphaned, img.Name)
		if dryRun {
			continue
		}
		if err := c.store.Delete(ctx, img.Name); err != nil {
			log.Printf("image cleanup: delete failed name=%q error=%v", img.Name, err)
			res.Failed = append(res.Failed, img.Name)
			continue
		}
		res.Deleted++
	}

	log.Printf("image cleanup completed: scanned=%d orphaned=%d deleted=%d failed=%d dry_run=%t in %v",
		res.Scanned, len(res.Orphaned), res.Deleted, len(res.Failed), dryRun, time.Since(startTime))

	return res, nil
}
