package main

import (
	"os"

	"github.com/marketlink/marketlink/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
