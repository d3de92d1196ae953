package layout

import (
	"fmt"
	"io"

	"github.com/jroimartin/gocui"
)

// Print appends text to a view from any goroutine.
func Print(g *gocui.Gui, view string, text string) {
	g.Update(func(g *gocui.Gui) error {
		v, err := g.View(view)
		if err != nil {
			return nil
		}
		fmt.Fprint(v, text)
		return nil
	})
}

// SetStatus replaces the status line.
func SetStatus(g *gocui.Gui, text string) {
	g.Update(func(g *gocui.Gui) error {
		v, err := g.View(StatusView)
		if err != nil {
			return nil
		}
		v.Clear()
		fmt.Fprint(v, text)
		return nil
	})
}

type viewWriter struct {
	g    *gocui.Gui
	view string
}

func (w viewWriter) Write(p []byte) (int, error) {
	Print(w.g, w.view, string(p))
	return len(p), nil
}

// LogWriter sends everything written to it to the logger view, so it can back log.SetOutput.
func LogWriter(g *gocui.Gui) io.Writer {
	return viewWriter{g: g, view: LoggerView}
}
