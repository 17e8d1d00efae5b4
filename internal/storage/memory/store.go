package memory

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/vladislavdragonenkov/canteen/internal/domain"
)

// Store — in-memory реализация StateStore для тестов и эфемерных запусков.
// Значения хранятся в сериализованном виде, чтобы семантика round-trip
// совпадала с файловым хранилищем.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New возвращает пустое in-memory хранилище.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Save сериализует значение и запоминает его под ключом.
func (s *Store) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return nil
}

// Load десериализует сохранённое значение по ключу.
func (s *Store) Load(key string, into any) error {
	s.mu.RLock()
	data, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return domain.ErrStateNotFound
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}
	return nil
}

// Corrupt подменяет сохранённые данные произвольными байтами.
// Используется в тестах восстановления после повреждения состояния.
func (s *Store) Corrupt(key string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
}

var _ domain.StateStore = (*Store)(nil)
