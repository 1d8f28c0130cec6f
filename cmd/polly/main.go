package main

import (
	"os"

	"horse.fit/polly/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
