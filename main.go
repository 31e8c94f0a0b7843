// Package main provides the entry point for the Line Editor application.
package main

import (
	"log"
	"log/slog"
	"os"

	"line-editor/internal/app"
	"line-editor/internal/logging"
	"line-editor/internal/version"
	"line-editor/ui/mainwindow"
	"line-editor/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const (
	appTitle = "Line Editor"
	appID    = "io.github.lineeditor"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	level := slog.LevelInfo
	if os.Getenv("LINE_EDITOR_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.EditorTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()

	// Handle command line arguments
	if len(os.Args) > 1 {
		docPath := os.Args[1]
		if err := appState.LoadDocument(docPath); err != nil {
			log.Printf("Failed to load document %s: %v", docPath, err)
		}
	}

	win := mainwindow.New(a, appState, appPrefs)
	win.ShowAndRun()
}
