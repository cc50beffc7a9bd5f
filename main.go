package main

import (
	"log"
	"os"

	"github.com/olivierh59500/node-field/cmd"
)

func main() {
	log.SetFlags(log.LstdFlags)
	log.SetPrefix("nodefield: ")

	cmd.SetWindowRunner(runWindow)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
