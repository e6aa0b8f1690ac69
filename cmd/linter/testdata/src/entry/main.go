package main

import (
	"log"
	"os"
)

type app struct{}

func (app) main() {
	os.Exit(1) // want `os.Exit outside main.main: return an error instead`
}

func run() int {
	log.Fatal("configuration error") // want `log.Fatal outside main.main: return an error instead`
	return 2
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		}
	}()
	os.Exit(run())
}
