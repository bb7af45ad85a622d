package credentials

import (
	"sync"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

// SenderStore keeps the runtime sender config in memory for the life of the process.
type SenderStore struct {
	mu  sync.RWMutex
	cfg domain.SenderConfig
}

var _ ports.SenderConfigStore = (*SenderStore)(nil)

func NewSenderStore() *SenderStore {
	return &SenderStore{}
}

func (s *SenderStore) Get() domain.SenderConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg
}

func (s *SenderStore) Set(cfg domain.SenderConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg
}
