package notification

import (
	"fmt"
	"time"
)

// FormatTime возвращает относительное описание момента времени для
// списка уведомлений и результатов поиска.
func FormatTime(t, now time.Time) string {
	diff := now.Sub(t)
	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := hours / 24

	switch {
	case minutes < 60:
		if minutes <= 0 {
			return "Just now"
		}
		return fmt.Sprintf("%dm ago", minutes)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("1/2/2006")
}
