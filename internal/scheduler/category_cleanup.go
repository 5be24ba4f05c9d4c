package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer puts a category cleanup task on the background queue.
type Enqueuer interface {
	EnqueueCategoryCleanup() (string, error)
}

// ValidateSchedule reports whether schedule is a 5-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// CategoryCleanupScheduler periodically enqueues the orphan category cleanup.
type CategoryCleanupScheduler struct {
	queue    Enqueuer
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewCategoryCleanupScheduler(queue Enqueuer, schedule string) *CategoryCleanupScheduler {
	return &CategoryCleanupScheduler{
		queue:    queue,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start schedules the cleanup job. It stops on its own when ctx is cancelled.
func (s *CategoryCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.queue == nil {
		log.Printf("Category cleanup scheduler: task queue disabled, skipping")
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		return fmt.Errorf("failed to schedule category cleanup: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Category cleanup scheduler: started with schedule '%s'. Next run: %v",
		s.schedule, s.cron.Entry(entryID).Next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to finish.
func (s *CategoryCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Category cleanup scheduler: stopped")
}

func (s *CategoryCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the next scheduled run, or the zero time when stopped.
func (s *CategoryCleanupScheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

func (s *CategoryCleanupScheduler) run() {
	id, err := s.queue.EnqueueCategoryCleanup()
	if err != nil {
		log.Printf("Category cleanup scheduler: %v", err)
		return
	}
	log.Printf("Category cleanup scheduler: enqueued task %s", id)
}
