package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/canteen/internal/domain"
)

// Store — файловая реализация StateStore: один JSON-файл на ключ
// внутри каталога данных. Запись атомарна (временный файл + rename),
// чтобы сбой посреди записи не оставил повреждённый файл.
type Store struct {
	mu     sync.Mutex
	dir    string
	logger *log.Entry
}

// New создаёт хранилище поверх каталога, создавая его при необходимости.
func New(dir string, logger *log.Entry) (*Store, error) {
	if logger == nil {
		logger = log.New().WithField("component", "localstore")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Save сериализует значение в JSON и записывает его под ключом.
func (s *Store) Save(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		// Убираем осиротевший временный файл; сама запись уже не удалась.
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	s.logger.WithFields(log.Fields{"key": key, "bytes": len(data)}).Debug("state saved")
	return nil
}

// Load читает значение по ключу. Отсутствие ключа — ErrStateNotFound;
// данные, которые не десериализуются в ожидаемую форму, — ErrCorruptState.
func (s *Store) Load(key string, into any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrStateNotFound
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	if err := json.Unmarshal(data, into); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("persisted state does not match expected shape")
		return fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}
	return nil
}

// Check — проба записи для health-проверки хранилища.
func (s *Store) Check() error {
	probe := filepath.Join(s.dir, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return os.Remove(probe)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

var _ domain.StateStore = (*Store)(nil)
