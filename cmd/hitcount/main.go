package main

import (
	"os"

	"github.com/agis/hitcount/internal/app"
)

// Overridden with -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var version, commit, date string

func main() {
	app.SetBuildInfo(version, commit, date)
	os.Exit(app.Execute())
}
