package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

const CleanupOrphanCategoriesQueue = "cleanup_orphan_categories"

// OrphanCategoriesCleaner deletes categories that no acronym uses.
type OrphanCategoriesCleaner interface {
	DeleteOrphanCategories() (int64, error)
}

// CleanupOrphanCategoriesTask removes categories left behind by deleted or
// re-categorised acronyms.
type CleanupOrphanCategoriesTask struct{}

func (t CleanupOrphanCategoriesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        CleanupOrphanCategoriesQueue,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphanCategoriesProcessor runs the cleanup against cleaner.
func CleanupOrphanCategoriesProcessor(cleaner OrphanCategoriesCleaner) backlite.QueueProcessor[CleanupOrphanCategoriesTask] {
	return func(ctx context.Context, task CleanupOrphanCategoriesTask) error {
		if cleaner == nil {
			return errors.New("orphan categories cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphanCategories()
		if err != nil {
			return fmt.Errorf("cleanup orphan categories: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d orphan categories", deleted)
		return nil
	}
}

func NewCleanupOrphanCategoriesQueue(cleaner OrphanCategoriesCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanCategoriesProcessor(cleaner))
}

// EnqueueCategoryCleanup adds one cleanup task and returns its ID.
func (c *Client) EnqueueCategoryCleanup() (string, error) {
	ids, err := c.Add(CleanupOrphanCategoriesTask{}).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue category cleanup: %w", err)
	}
	if len(ids) == 0 {
		return "", errors.New("enqueue category cleanup: no task id returned")
	}
	return ids[0], nil
}
