package store

import (
	"errors"
	"log"
	"os"
)

var errMissing = errors.New("missing")

func mustOpen(path string) {
	if path == "" {
		panic("empty path") // want "panic outside main.main: return an error instead"
	}
}

func fatal() {
	log.Fatalf("cannot read %s", "key") // want `log.Fatalf outside main.main: return an error instead`
}

func exit() {
	os.Exit(1) // want `os.Exit outside main.main: return an error instead`
}

func loggerMethod(l *log.Logger) {
	l.Panicln(errMissing) // want `log.Panicln outside main.main: return an error instead`
}

var _ = func() int {
	os.Exit(2) // want `os.Exit outside main.main: return an error instead`
	return 0
}

func allowed() error {
	log.Println("statistics discovered")
	return errMissing
}

// shadowed panic — обычная функция, не встроенная.
func shadowed() {
	panic := func(string) {}
	panic("fine")
}
