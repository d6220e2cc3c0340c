package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/kikiluvv/slopstudio/internal/config"
	"github.com/kikiluvv/slopstudio/internal/export"
	"github.com/kikiluvv/slopstudio/internal/preview"
	"github.com/kikiluvv/slopstudio/internal/timeline"
)

// Editor bundles the core pieces the window drives. Every behavior the
// GUI triggers is a public API on one of these; the window itself is glue.
type Editor struct {
	Config   *config.Config
	Timeline *timeline.Timeline
	Preview  *preview.Renderer
	Export   *export.Renderer
	Encoder  string
}

// Run opens the editor window and blocks until it closes.
func (e *Editor) Run() {
	myApp := app.NewWithID("slopstudio")
	w := myApp.NewWindow("slopstudio")
	w.Resize(fyne.NewSize(480, 900))

	frame := canvas.NewImageFromImage(e.Preview.Frame(e.Timeline))
	frame.FillMode = canvas.ImageFillContain
	frame.SetMinSize(fyne.NewSize(360, 640))

	timeLabel := widget.NewLabel("0.00s / 10.00s")
	refresh := func() {
		frame.Image = e.Preview.Frame(e.Timeline)
		frame.Refresh()
		timeLabel.SetText(fmt.Sprintf("%.2fs / %.2fs",
			e.Timeline.CurrentTime(), e.Timeline.TotalDuration()))
	}

	slider := widget.NewSlider(0, e.Timeline.TotalDuration())
	slider.Step = 0.05
	slider.OnChanged = func(val float64) {
		e.Timeline.SetCurrentTime(val)
		refresh()
	}
	syncSlider := func() {
		slider.Max = e.Timeline.TotalDuration()
		slider.SetValue(e.Timeline.CurrentTime())
	}

	var playing bool
	var playBtn *widget.Button
	playBtn = widget.NewButton("Play", func() {
		playing = !playing
		if !playing {
			playBtn.SetText("Play")
			return
		}
		playBtn.SetText("Pause")
		go func() {
			ticker := time.NewTicker(time.Second / 30)
			defer ticker.Stop()
			for range ticker.C {
				if !playing {
					return
				}
				fyne.Do(func() {
					t := e.Timeline.CurrentTime() + 1.0/30
					if t >= e.Timeline.TotalDuration() {
						t = 0
					}
					e.Timeline.SetCurrentTime(t)
					syncSlider()
					refresh()
				})
			}
		}()
	})

	addTextBtn := widget.NewButton("Add Text", func() {
		entry := widget.NewEntry()
		entry.SetPlaceHolder("Layer text")
		dialog.ShowForm("New Text Layer", "Add", "Cancel",
			[]*widget.FormItem{widget.NewFormItem("Text", entry)},
			func(ok bool) {
				if !ok || entry.Text == "" {
					return
				}
				l := e.Timeline.CreateTextLayer(entry.Text, 0, e.Timeline.TotalDuration())
				e.Timeline.SelectLayer(l.ID())
				refresh()
			}, w)
	})

	addImageBtn := widget.NewButton("Add Image", func() {
		fd := dialog.NewFileOpen(func(ur fyne.URIReadCloser, err error) {
			if ur == nil || err != nil {
				return
			}
			created := e.Timeline.AddSequentialImages(
				[]string{ur.URI().Path()}, e.Config.Sequence.DurationPerImage, nil)
			if len(created) > 0 {
				e.Timeline.SelectLayer(created[0].ID())
			}
			syncSlider()
			refresh()
		}, w)
		fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif"}))
		fd.Show()
	})

	addBoxBtn := widget.NewButton("Add Box", func() {
		l := e.Timeline.CreateBoxLayer(0, e.Timeline.TotalDuration())
		e.Timeline.SelectLayer(l.ID())
		refresh()
	})

	deleteBtn := widget.NewButton("Delete Layer", func() {
		if sel := e.Timeline.SelectedLayer(); sel != nil {
			e.Timeline.RemoveLayer(sel.ID())
			refresh()
		}
	})

	transitions := []string{"none", "crossfade", "fadeblack", "wipeleft", "wiperight", "zoomin", "zoomout", "rotate", "flip"}
	transitionSelect := widget.NewSelect(transitions, func(sel string) {
		e.Timeline.SetTransition(timeline.Transition{
			Type:     timeline.TransitionType(sel),
			Duration: 0.5,
		})
		refresh()
	})
	transitionSelect.SetSelected(string(e.Timeline.Transition().Type))

	exportBtn := widget.NewButton("Export Video", func() {
		fd := dialog.NewFileSave(func(uw fyne.URIWriteCloser, err error) {
			if uw == nil || err != nil {
				return
			}
			outPath := uw.URI().Path()
			uw.Close()
			e.startExport(w, outPath)
		}, w)
		fd.SetFileName("export.mp4")
		fd.Show()
	})

	w.SetContent(container.NewVBox(
		frame,
		slider,
		timeLabel,
		container.NewHBox(playBtn, addTextBtn, addImageBtn, addBoxBtn, deleteBtn),
		container.NewHBox(widget.NewLabel("Transition:"), transitionSelect),
		exportBtn,
	))

	refresh()
	w.ShowAndRun()
}

// startExport kicks off a render with a modal progress dialog.
func (e *Editor) startExport(w fyne.Window, outPath string) {
	bar := widget.NewProgressBar()
	status := widget.NewLabel("Starting...")
	d := dialog.NewCustomWithoutButtons("Exporting", container.NewVBox(status, bar), w)

	req := export.Request{
		Snapshot: e.Timeline.Export(),
		Options: export.Options{
			OutputPath: outPath,
			Width:      e.Config.Canvas.Width,
			Height:     e.Config.Canvas.Height,
			FPS:        e.Config.Canvas.FPS,
			Quality:    export.Quality(e.Config.Export.Quality),
			Encoder:    e.Encoder,
		},
		Progress: func(fraction float64, st string) {
			fyne.Do(func() {
				bar.SetValue(fraction)
				status.SetText(st)
			})
		},
	}

	done := make(chan error, 1)
	if !e.Export.Render(context.Background(), req, done) {
		dialog.ShowInformation("Export", "An export is already running", w)
		return
	}
	d.Show()

	go func() {
		err := <-done
		fyne.Do(func() {
			d.Hide()
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			dialog.ShowInformation("Export", "Saved to "+outPath, w)
		})
	}()
}
