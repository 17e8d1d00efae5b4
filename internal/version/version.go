package version

import "fmt"

// Заполняются при сборке через -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// String возвращает строку вида "canteen-service dev (commit unknown, built unknown)".
func String() string {
	return fmt.Sprintf("canteen-service %s (commit %s, built %s)", version, commit, date)
}
