package version

import (
	"fmt"
	"io"
)

var (
	// buildVersion — версия сборки приложения.
	buildVersion string
	// buildDate — дата сборки приложения.
	buildDate string
	// buildCommit — хеш коммита сборки.
	buildCommit string
)

// Info — информация о сборке.
type Info struct {
	Version string
	Date    string
	Commit  string
}

// Get возвращает информацию о сборке; незаданные поля равны "N/A".
func Get() Info {
	return Info{
		Version: orNA(buildVersion),
		Date:    orNA(buildDate),
		Commit:  orNA(buildCommit),
	}
}

// Print выводит информацию о сборке в w.
func Print(w io.Writer) {
	info := Get()
	fmt.Fprintf(w, "Build version: %s\n", info.Version)
	fmt.Fprintf(w, "Build date: %s\n", info.Date)
	fmt.Fprintf(w, "Build commit: %s\n", info.Commit)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
