package workflow

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/quizsync/pkg/core"
)

// UploadAll uploads every item and reports, per item ID, whether it succeeded.
//
// Items are independent: a failed item is recorded as false with one error
// entry in the activity log and the batch moves on. For each item an
// existence check (Stat) is made first to pick up the current version tag; a
// failed check means the asset is created. With a concurrency above 1, uploads run
// in a bounded pool, writes to the same path stay serialized and log entries
// are still appended in input order.
//
// The context is checked between items. When it is cancelled, items that
// were not started are reported as false and ctx.Err() is returned along
// with the partial results.
func (s *Service) UploadAll(ctx context.Context, items []core.AssetUploadItem) (map[string]bool, error) {
	results := make(map[string]bool, len(items))

	ctx, err := s.authorize(ctx, "upload")
	if err != nil {
		s.log.Append(core.KindUploadError, err.Error())
		return results, err
	}

	started := make([]bool, len(items))
	if s.concurrency < 2 {
		for i, item := range items {
			if ctx.Err() != nil {
				break
			}
			started[i] = true
			s.recordUpload(item, s.upload(ctx, item), results)
		}
	} else {
		outcomes := make([]error, len(items))

		var g errgroup.Group
		g.SetLimit(s.concurrency)
		for i, item := range items {
			if ctx.Err() != nil {
				break
			}
			started[i] = true
			g.Go(func() error {
				outcomes[i] = s.upload(ctx, item)
				return nil
			})
		}
		_ = g.Wait()

		for i, item := range items {
			if started[i] {
				s.recordUpload(item, outcomes[i], results)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		skipped := 0
		for i, item := range items {
			if !started[i] {
				results[item.ID] = false
				skipped++
			}
		}
		if skipped > 0 {
			s.log.Append(core.KindUploadError, fmt.Sprintf("upload cancelled: %d item(s) not attempted", skipped))
		}
		return results, err
	}
	return results, nil
}

func (s *Service) recordUpload(item core.AssetUploadItem, err error, results map[string]bool) {
	if err != nil {
		results[item.ID] = false
		s.log.Append(core.KindUploadError, err.Error())
		return
	}
	results[item.ID] = true
	s.log.Append(core.KindUploadSuccess, fmt.Sprintf("uploaded %s", item.Path()))
}

func (s *Service) upload(ctx context.Context, item core.AssetUploadItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("upload %s: %w", item.ID, err)
	}
	path := item.Path()

	unlock := s.locks.lock(path)
	defer unlock()

	var tag string
	if current, err := s.remote.Stat(ctx, path); err == nil {
		tag = current
	} else {
		s.logger.Debug("existence check failed, creating asset", "path", path, "error", err)
	}

	newTag, err := s.remote.Put(ctx, core.PutRequest{
		Path:       path,
		Content:    item.Payload,
		VersionTag: tag,
		Message:    s.uploadMessage,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}

	s.setTag(path, newTag)
	return nil
}
