package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/vladislavdragonenkov/canteen/internal/domain"
)

// GenerateToken создаёт человекочитаемый номер токена: префикс, четыре
// младшие цифры текущего времени в миллисекундах и случайный трёхзначный
// суффикс. Уникальность best-effort: коллизии не детектируются.
func (m *Manager) GenerateToken() string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	suffix, err := randomSuffix()
	if err != nil {
		// Запасной вариант: токен только из времени.
		m.logger.WithError(err).Warn("token randomness unavailable, falling back to time-only token")
		return domain.TokenPrefix + millis[len(millis)-7:]
	}
	return domain.TokenPrefix + millis[len(millis)-4:] + suffix
}

func randomSuffix() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%03d", n.Int64()), nil
}
