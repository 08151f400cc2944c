package memimg

import (
	"image"
	"sync"

	"github.com/hoshinonyaruko/snake-in-term/render"
	"github.com/hoshinonyaruko/snake-in-term/structs"
)

type cachedImage struct {
	version uint64
	img     image.Image
}

// Store keeps the latest published frame in memory for spectators.
type Store struct {
	mu       sync.RWMutex
	snapshot structs.Snapshot
	version  uint64
	changed  chan struct{}

	// 按 blockSize 缓存已经绘制好的图像
	images sync.Map
}

func NewStore() *Store {
	return &Store{changed: make(chan struct{})}
}

// Publish stores a snapshot and wakes everyone waiting for a new frame.
func (s *Store) Publish(snapshot structs.Snapshot) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.version++
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()
}

// Latest returns the current snapshot and its version. Version 0 means
// nothing has been published yet.
func (s *Store) Latest() (structs.Snapshot, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.version
}

// Changed returns a channel that is closed on the next Publish.
func (s *Store) Changed() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed
}

// GetImage returns the rendered latest frame, drawing it at most once per
// frame and block size.
func (s *Store) GetImage(blockSize int) (image.Image, bool) {
	snapshot, version := s.Latest()
	if version == 0 {
		return nil, false
	}

	if cached, ok := s.images.Load(blockSize); ok {
		c := cached.(cachedImage)
		if c.version == version {
			return c.img, true
		}
	}

	img := render.RenderImage(snapshot, blockSize)
	s.images.Store(blockSize, cachedImage{version: version, img: img})
	return img, true
}
