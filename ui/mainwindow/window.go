// Package mainwindow assembles the application window: preview, toolbar,
// and status bar.
package mainwindow

import (
	"fmt"
	"log"
	"strings"

	"camlens/internal/app"
	"camlens/internal/capture"
	"camlens/internal/scan"
	"camlens/internal/viewport"
	"camlens/ui/camview"
	"camlens/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// MainWindow owns the window and its widgets.
type MainWindow struct {
	win   fyne.Window
	state *app.State
	prefs *prefs.Prefs

	view      *camview.View
	status    *widget.Label
	recordBtn *widget.Button
}

// New builds the main window over the application state.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	w := &MainWindow{
		win:   fyneApp.NewWindow("Camlens"),
		state: state,
		prefs: p,
	}

	fit := viewport.FitContain
	if p.String(prefs.KeyFitMode, "contain") == "cover" {
		fit = viewport.FitCover
	}
	w.view = camview.New(state.Controller(), state.Loop(), fit)
	w.status = widget.NewLabel("")

	w.recordBtn = widget.NewButtonWithIcon("Record", theme.MediaRecordIcon(), w.toggleRecord)
	toolbar := container.NewHBox(
		widget.NewButtonWithIcon("Photo", theme.MediaPhotoIcon(), w.takePhoto),
		w.recordBtn,
		widget.NewButtonWithIcon("Mirror", theme.ViewRefreshIcon(), w.toggleMirror),
		widget.NewButtonWithIcon("Fit", theme.ViewFullScreenIcon(), w.toggleFit),
		widget.NewButtonWithIcon("Scan", theme.SearchIcon(), w.toggleScan),
		widget.NewButtonWithIcon("Codes", theme.ListIcon(), w.showScanResults),
		widget.NewButtonWithIcon("Stamp", theme.HistoryIcon(), w.toggleTimestamp),
	)

	w.win.SetContent(container.NewBorder(toolbar, w.status, nil, nil, w.view))
	w.win.Resize(fyne.NewSize(960, 600))

	w.wireEvents()
	w.refreshStatus()
	return w
}

// Window returns the underlying fyne window.
func (w *MainWindow) Window() fyne.Window { return w.win }

// Show displays the window.
func (w *MainWindow) Show() { w.win.Show() }

func (w *MainWindow) wireEvents() {
	w.state.On(app.EventPhotoSaved, func(data interface{}) {
		if out, ok := data.(capture.Output); ok {
			w.status.SetText(fmt.Sprintf("Saved %s", out.Filename))
		}
	})
	w.state.On(app.EventVideoSaved, func(data interface{}) {
		if out, ok := data.(capture.Output); ok {
			w.status.SetText(fmt.Sprintf("Saved %s (%s)", out.Filename, out.Duration.Round(1e9)))
		}
	})
	w.state.On(app.EventSourceLost, func(data interface{}) {
		w.status.SetText("Camera disconnected")
	})
	w.state.On(app.EventError, func(data interface{}) {
		if err, ok := data.(error); ok {
			w.status.SetText(fmt.Sprintf("Error: %v", err))
		}
	})
}

func (w *MainWindow) refreshStatus() {
	snap := w.state.ViewState().Snapshot()
	w.status.SetText(fmt.Sprintf("Zoom %.1fx", snap.Zoom))
}

func (w *MainWindow) takePhoto() {
	if _, err := w.state.TakePhoto(); err != nil {
		log.Printf("photo: %v", err)
	}
}

func (w *MainWindow) toggleRecord() {
	if w.state.Recording() {
		if _, err := w.state.StopRecording(); err != nil {
			log.Printf("video: %v", err)
		}
		w.recordBtn.SetText("Record")
		w.recordBtn.SetIcon(theme.MediaRecordIcon())
		return
	}
	if err := w.state.StartRecording(); err != nil {
		log.Printf("video: %v", err)
		return
	}
	w.recordBtn.SetText("Stop")
	w.recordBtn.SetIcon(theme.MediaStopIcon())
}

func (w *MainWindow) toggleMirror() {
	st := w.state.ViewState()
	st.SetMirrored(!st.Mirrored())
	w.prefs.SetBool(prefs.KeyMirrored, st.Mirrored())
}

func (w *MainWindow) toggleFit() {
	if w.view.Fit() == viewport.FitContain {
		w.view.SetFit(viewport.FitCover)
		w.prefs.SetString(prefs.KeyFitMode, "cover")
	} else {
		w.view.SetFit(viewport.FitContain)
		w.prefs.SetString(prefs.KeyFitMode, "contain")
	}
}

func (w *MainWindow) toggleScan() {
	if w.state.Scanner() != nil {
		w.state.DisableScan()
		w.prefs.SetBool(prefs.KeyScanEnabled, false)
		w.status.SetText("Scan off")
		return
	}
	decoder, err := scan.NewTesseract()
	if err != nil {
		log.Printf("scan: %v", err)
		w.status.SetText(fmt.Sprintf("Scan unavailable: %v", err))
		return
	}
	w.state.EnableScan(decoder, scan.DefaultOptions())
	w.prefs.SetBool(prefs.KeyScanEnabled, true)
	w.status.SetText("Scan on")
}

// showScanResults pops a modal listing the recognized codes. The preview
// freezes behind the modal and resumes when it closes.
func (w *MainWindow) showScanResults() {
	runner := w.state.Scanner()
	if runner == nil {
		w.status.SetText("Scan is off")
		return
	}
	results := runner.Results()
	if len(results) == 0 {
		w.status.SetText("No codes recognized yet")
		return
	}

	var b strings.Builder
	for _, res := range results {
		fmt.Fprintf(&b, "%s (%.0f%%)\n", res.Text, res.Confidence)
	}

	w.state.Loop().SetPaused(true)
	d := dialog.NewCustom("Recognized codes", "Close", widget.NewLabel(b.String()), w.win)
	d.SetOnClosed(func() { w.state.Loop().SetPaused(false) })
	d.Show()
}

func (w *MainWindow) toggleTimestamp() {
	enabled := !w.state.Timestamp()
	w.state.SetTimestamp(enabled)
	w.prefs.SetBool(prefs.KeyTimestamp, enabled)
	if enabled {
		w.status.SetText("Timestamp on")
	} else {
		w.status.SetText("Timestamp off")
	}
}

// SavePreferences flushes preferences to disk.
func (w *MainWindow) SavePreferences() {
	if err := w.prefs.Save(); err != nil {
		log.Printf("prefs: %v", err)
	}
}
