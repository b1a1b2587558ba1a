package media

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/campusmarket/internal/common"
)

// MediaPathPrefix is where the HTTP layer serves MemoryStore objects.
const MediaPathPrefix = "/media/"

// MemoryStore keeps objects in process memory and resolves them to
// <baseURL>/media/<key>.
type MemoryStore struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]Object
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]Object),
	}
}

func (s *MemoryStore) Save(ctx context.Context, key, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = Object{ContentType: contentType, Data: append([]byte(nil), data...)}
	return s.baseURL + MediaPathPrefix + key, nil
}

func (s *MemoryStore) Open(ctx context.Context, key string) (*Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[key]
	if !ok {
		return nil, common.ErrMediaNotFound
	}
	o.Data = append([]byte(nil), o.Data...)
	return &o, nil
}
