package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/settingsflow/internal/clock"
	"github.com/viant/settingsflow/internal/idgen"
	"github.com/viant/settingsflow/messaging"
)

// MessageState represents the state of a message in the filesystem queue
type MessageState string

const (
	// MessageStatePending indicates a message is waiting to be consumed
	MessageStatePending MessageState = "pending"

	// MessageStateProcessing indicates a message was handed to a consumer
	MessageStateProcessing MessageState = "processing"

	// MessageStateCompleted indicates a message was acknowledged
	MessageStateCompleted MessageState = "completed"

	// MessageStateFailed indicates a message was rejected
	MessageStateFailed MessageState = "failed"
)

// Message implements messaging.Message for the filesystem queue
type Message[T any] struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`

	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack moves the message from processing to completed
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.ID)
	}
	m.processed = true
	m.State = MessageStateCompleted
	m.UpdatedAt = clock.Now()
	return m.queue.settle(context.Background(), m, m.queue.completedDir)
}

// Nack moves the message from processing to failed, recording err
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.ID)
	}
	m.processed = true
	m.State = MessageStateFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.UpdatedAt = clock.Now()
	return m.queue.settle(context.Background(), m, m.queue.failedDir)
}

// Config holds configuration for filesystem queue
type Config struct {
	BaseURL       string // Base location for queue files, any afs supported URL
	KeepCompleted bool   // Keep acknowledged messages under completed/
}

// DefaultConfig returns a default queue configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "/tmp/settingsflow/queue",
	}
}

// Queue implements a filesystem-based messaging.Queue. File names carry the
// queue start time and a publish sequence so that consumption follows publish
// order regardless of wall-clock steps.
type Queue[T any] struct {
	fs            afs.Service
	config        Config
	pendingDir    string
	processingDir string
	completedDir  string
	failedDir     string
	epoch         int64
	sequence      uint64
	mu            sync.Mutex
}

// NewQueue creates a new filesystem-based queue, creating its directories
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingDir:    url.Join(config.BaseURL, "pending"),
		processingDir: url.Join(config.BaseURL, "processing"),
		completedDir:  url.Join(config.BaseURL, "completed"),
		failedDir:     url.Join(config.BaseURL, "failed"),
		epoch:         clock.Now().UnixNano(),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.processingDir, q.completedDir, q.failedDir} {
		if exists, _ := fs.Exists(ctx, dir); exists {
			continue
		}
		if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return q, nil
}

// Publish writes a new message to the pending directory
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	now := clock.Now()
	seq := atomic.AddUint64(&q.sequence, 1)
	message := &Message[T]{
		ID:        idgen.New(),
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	message.Name = fmt.Sprintf("%020d-%020d-%s.json", q.epoch, seq, message.ID)
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return q.upload(ctx, url.Join(q.pendingDir, message.Name), data)
}

// Consume moves the oldest pending message to processing and returns it.
// It returns a nil message when nothing is pending.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.list(ctx, q.pendingDir)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}
	obj := pending[0]
	message, err := q.read(ctx, obj.URL())
	if err != nil {
		_ = q.fs.Move(ctx, obj.URL(), url.Join(q.failedDir, "invalid-"+obj.Name()))
		return nil, err
	}
	message.queue = q
	message.State = MessageStateProcessing
	message.UpdatedAt = clock.Now()
	if err := q.fs.Move(ctx, obj.URL(), url.Join(q.processingDir, obj.Name())); err != nil {
		return nil, fmt.Errorf("failed to move message %s to processing: %w", obj.Name(), err)
	}
	return message, nil
}

// Size returns the number of pending messages
func (q *Queue[T]) Size(ctx context.Context) (int, error) {
	pending, err := q.list(ctx, q.pendingDir)
	return len(pending), err
}

func (q *Queue[T]) settle(ctx context.Context, m *Message[T], dir string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	processingURL := url.Join(q.processingDir, m.Name)
	if dir != q.completedDir || q.config.KeepCompleted {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal message %s: %w", m.ID, err)
		}
		if err := q.upload(ctx, url.Join(dir, m.Name), data); err != nil {
			return err
		}
	}
	if exists, _ := q.fs.Exists(ctx, processingURL); exists {
		if err := q.fs.Delete(ctx, processingURL); err != nil {
			return fmt.Errorf("failed to delete message %s from processing: %w", m.Name, err)
		}
	}
	return nil
}

func (q *Queue[T]) list(ctx context.Context, dir string) ([]storage.Object, error) {
	objects, err := q.fs.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var files []storage.Object
	for _, obj := range objects {
		if !obj.IsDir() && strings.HasSuffix(obj.Name(), ".json") {
			files = append(files, obj)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
	return files, nil
}

func (q *Queue[T]) upload(ctx context.Context, URL string, data []byte) error {
	if err := q.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", URL, err)
	}
	return nil
}

func (q *Queue[T]) read(ctx context.Context, URL string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", URL, err)
	}
	var message Message[T]
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", URL, err)
	}
	return &message, nil
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
