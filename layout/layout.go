package layout

import (
	"fmt"
	"io/ioutil"
	"log"
	"strings"
	"sync"

	"github.com/Luismorlan/dept_ledger/commands"
	"github.com/jroimartin/gocui"
)

// View names.
const (
	InputView   = "input"
	LoggerView  = "logger"
	StatusView  = "status"
	ManualView  = "manual"
	PastCmdView = "pastcommand"
)

type cmd struct {
	str   string
	ready bool
	m     sync.RWMutex
}

var command cmd = cmd{}

// PastCmd is the ViewManager that logs past command.
type PastCmd struct {
	name string
}

// Input box for command. parse turns a line into a command and hands it over.
type Input struct {
	name  string
	parse func(s string) error
}

type Logger struct {
	name string
}

// Status is a one line banner on top of the logger.
type Status struct {
	name string
}

type Manual struct {
	name string
	path string
}

func (pc *PastCmd) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Bottom left corner.
	v, _ := g.SetView(pc.name, 1, maxY*2/3, maxX/3, maxY-6)
	v.Autoscroll = true
	v.Wrap = true

	command.m.Lock()
	defer command.m.Unlock()
	if command.ready {
		fmt.Fprintln(v, "> "+command.str)
	}
	command.ready = false

	return nil
}

func (i *Input) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Bottom.
	v, err := g.SetView(i.name, 1, maxY-5, maxX-1, maxY-1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Wrap = true
	v.Autoscroll = true
	v.Editor = i
	v.Editable = true
	return nil
}

func (l *Logger) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Right side, under the status line.
	v, _ := g.SetView(l.name, maxX/3+1, 4, maxX-1, maxY-6)
	v.Autoscroll = true
	v.Wrap = true
	return nil
}

func (s *Status) Layout(g *gocui.Gui) error {
	maxX, _ := g.Size()
	v, err := g.SetView(s.name, maxX/3+1, 1, maxX-1, 3)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Frame = true
	return nil
}

func (m *Manual) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Top left corner.
	v, _ := g.SetView(m.name, 1, 1, maxX/3, maxY*2/3-1)
	v.Autoscroll = true
	v.Wrap = true
	v.Clear()
	dat, err := ioutil.ReadFile(m.path)
	if err != nil {
		g.Close()
		log.Fatal(err)
	}
	fmt.Fprintln(v, string(dat))
	return nil
}

func (i *Input) Edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	switch {
	case key == gocui.KeyEnter:
		// Read buffer.
		s := v.Buffer()
		// Remove \n from string.
		s = strings.Replace(s, "\n", "", -1)
		err := i.parse(s)
		command.m.Lock()
		command.str = s
		if err != nil {
			command.str = s + "\n" + err.Error()
		}
		command.ready = true
		command.m.Unlock()

		// Reset cursor.
		v.Clear()
		v.SetOrigin(0, 0)
		v.SetCursor(0, 0)

	case ch != 0 && mod == 0:
		v.EditWrite(ch)
	case key == gocui.KeySpace:
		v.EditWrite(' ')
	case key == gocui.KeyBackspace || key == gocui.KeyBackspace2:
		v.EditDelete(true)
	}
}

func SetFocus(name string) func(g *gocui.Gui) error {
	return func(g *gocui.Gui) error {
		_, err := g.SetCurrentView(name)
		return err
	}
}

// Parser returns the line parser feeding the given command channel, which must carry either
// node or wallet commands.
func Parser(cmd interface{}) (func(s string) error, error) {
	switch c := cmd.(type) {
	case chan commands.Command:
		return func(s string) error {
			op, err := commands.CreateCommand(s)
			if err == nil {
				// If a valid command, send to fullnode for processing.
				c <- op
			}
			return err
		}, nil
	case chan commands.ClientCommand:
		return func(s string) error {
			op, err := commands.CreateClientCommand(s)
			if err == nil {
				c <- op
			}
			return err
		}, nil
	default:
		return nil, fmt.Errorf("invalid command channel %T", cmd)
	}
}

// Create a GUI, using the command channel to pass command to the node or the wallet.
func CreateGui(cmd interface{}, manualPath string) (*gocui.Gui, error) {
	parse, err := Parser(cmd)
	if err != nil {
		return nil, err
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}

	g.Cursor = true

	pc := &PastCmd{name: PastCmdView}
	l := &Logger{name: LoggerView}
	s := &Status{name: StatusView}
	m := &Manual{name: ManualView, path: manualPath}
	input := &Input{name: InputView, parse: parse}
	focus := gocui.ManagerFunc(SetFocus(InputView))
	g.SetManager(pc, input, l, s, m, focus)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		log.Panicln(err)
	}

	return g, nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
