package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client wraps backlite to provide the background task queue.
type Client struct {
	client *backlite.Client
	db     *sql.DB
	config Config

	mu      sync.RWMutex
	started bool
}

// TasksDBPath returns the queue database path for a main database path:
// "data/til.db" becomes "data/til-tasks.db".
func TasksDBPath(mainDBPath string) string {
	if i := strings.Index(mainDBPath, "?"); i >= 0 {
		mainDBPath = mainDBPath[:i]
	}
	dir := filepath.Dir(mainDBPath)
	base := filepath.Base(mainDBPath)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+"-tasks"+ext)
}

// NewClient creates a task queue client backed by its own SQLite database,
// stored next to the main database. The queue never shares a connection
// with the application database, whichever driver that uses.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	db, err := sql.Open("sqlite3", TasksDBPath(mainDBPath)+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Workers + 5)
	db.SetMaxIdleConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &stdLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create backlite client: %w", err)
	}

	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install backlite schema: %w", err)
	}

	return &Client{
		client: client,
		db:     db,
		config: cfg,
	}, nil
}

// Register registers task queues with the client. Must be called before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start begins processing tasks. Run it in a goroutine; Stop ends it.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	log.Printf("Task queue started with %d workers", c.config.Workers)
	c.client.Start(ctx)
}

// Stop waits for in-flight tasks. Returns false if ctx expired first.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.RLock()
	started := c.started
	c.mu.RUnlock()
	if !started {
		return true
	}

	log.Println("Stopping task queue...")
	ok := c.client.Stop(ctx)
	if ok {
		log.Println("Task queue stopped gracefully")
	} else {
		log.Println("Task queue stopped with timeout (some tasks may not have completed)")
	}
	return ok
}

// Close releases the queue database. Call after Stop.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Add starts an operation to enqueue one or more tasks.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.client.Add(tasks...)
}

// TaskStatus reports a queued task as pending, running, success, failure
// or not_found.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (string, error) {
	status, err := c.client.Status(ctx, taskID)
	if err != nil {
		return "", fmt.Errorf("failed to load task %s: %w", taskID, err)
	}
	return statusName(status), nil
}

func statusName(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// stdLogger routes backlite's logs through the standard logger.
type stdLogger struct{}

func (l *stdLogger) Info(message string, params ...any) {
	log.Println(append([]any{"[TASK]", message}, params...)...)
}

func (l *stdLogger) Error(message string, params ...any) {
	log.Println(append([]any{"[TASK ERROR]", message}, params...)...)
}
