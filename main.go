// Package main provides the entry point for the Camlens application.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"camlens/internal/app"
	"camlens/internal/capture"
	"camlens/internal/version"
	"camlens/internal/viewport"
	"camlens/ui/mainwindow"
	"camlens/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appTitle = "Camlens"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	device := flag.Int("device", -1, "camera device ID (-1 = from preferences)")
	imagePath := flag.String("image", "", "static image to use instead of a camera")
	flag.Parse()

	appPrefs := prefs.Load()

	viewOpts := viewport.DefaultOptions()
	viewOpts.WheelZoomSensitivity = appPrefs.Float(prefs.KeyWheelSensitivity, viewOpts.WheelZoomSensitivity)

	capOpts := capture.DefaultOptions()
	capOpts.Quality = appPrefs.Int(prefs.KeyPhotoQuality, capOpts.Quality)

	saveDir := appPrefs.String(prefs.KeySaveDir, defaultSaveDir())
	state := app.NewState(viewOpts, capOpts, capture.DirSink{Dir: saveDir})
	defer state.Close()

	state.ViewState().SetMirrored(appPrefs.Bool(prefs.KeyMirrored, false))
	state.SetTimestamp(appPrefs.Bool(prefs.KeyTimestamp, false))

	if *imagePath != "" {
		if err := state.UseImage(*imagePath); err != nil {
			log.Fatalf("Failed to load image %s: %v", *imagePath, err)
		}
	} else {
		id := *device
		if id < 0 {
			id = appPrefs.Int(prefs.KeyCameraDevice, 0)
		}
		if err := state.UseCamera(id); err != nil {
			log.Printf("Failed to open camera %d: %v (no source loaded)", id, err)
		}
	}

	fyneApp := fyneapp.New()
	win := mainwindow.New(fyneApp, state, appPrefs)

	state.Loop().Start()

	win.Window().SetOnClosed(func() {
		win.SavePreferences()
	})
	win.Show()
	fyneApp.Run()
}

func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "captures"
	}
	return filepath.Join(home, "Pictures", "camlens")
}
