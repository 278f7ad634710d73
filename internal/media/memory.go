package media

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Storage used in tests and local development when
// no image host is configured.
type Memory struct {
	mu     sync.Mutex
	images map[string][]byte
}

// NewMemory creates an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{images: make(map[string][]byte)}
}

func (m *Memory) Upload(_ context.Context, filename string, content io.Reader) (Upload, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return Upload{}, fmt.Errorf("read image content: %w", err)
	}

	publicID := uuid.NewString()

	m.mu.Lock()
	m.images[publicID] = data
	m.mu.Unlock()

	return Upload{
		URL:      fmt.Sprintf("memory://%s/%s", publicID, filename),
		PublicID: publicID,
	}, nil
}

func (m *Memory) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	delete(m.images, publicID)
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored images.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.images)
}
