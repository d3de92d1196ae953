package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Luismorlan/dept_ledger/api"
	"github.com/Luismorlan/dept_ledger/commands"
	"github.com/Luismorlan/dept_ledger/config"
	"github.com/Luismorlan/dept_ledger/full_node"
	"github.com/Luismorlan/dept_ledger/journal"
	"github.com/Luismorlan/dept_ledger/layout"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/Luismorlan/dept_ledger/service"
	"github.com/jroimartin/gocui"
	"github.com/pterm/pterm"
	"google.golang.org/grpc"
)

var (
	configPath *string
	dataDir    *string
	debugMode  *bool
)

func init() {
	configPath = flag.String("config_path", "full_node/cmd/config.yaml", "path to full node config")
	dataDir = flag.String("data_dir", "", "LevelDB journal directory, overrides the config")
	debugMode = flag.Bool("debug_mode", false, "Using debug mode will disable fancy GUI.")
}

// Parse command from stdio.
func ParseCommand(cmd chan commands.Command) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		c, err := commands.CreateCommand(text)
		if err != nil {
			log.Println(err)
			continue
		}
		cmd <- c
	}
}

// Return a gui handle if not in debug mode. Quitting the GUI is reported on stop.
func ListenOnInput(cmd chan commands.Command, debugMode bool, stop chan<- os.Signal) *gocui.Gui {
	if debugMode {
		go ParseCommand(cmd)
		return nil
	}
	g, err := layout.CreateGui(cmd, "full_node/cmd/usage.txt")
	if err != nil {
		log.Fatalln(err)
	}
	// gocui only understands the basic colors.
	pterm.DisableColor()
	log.SetOutput(layout.LogWriter(g))
	go func() {
		err := g.MainLoop()
		g.Close()
		if err != nil && err != gocui.ErrQuit {
			fmt.Fprintln(os.Stderr, err)
		}
		stop <- os.Interrupt
	}()
	return g
}

func output(g *gocui.Gui, s string) {
	if g == nil {
		fmt.Println(s)
		return
	}
	layout.Print(g, layout.LoggerView, s+"\n")
}

func status(g *gocui.Gui, node *full_node.FullNode) {
	if g == nil {
		return
	}
	active, pending := node.Validators()
	heights := node.Heights()
	layout.SetStatus(g, fmt.Sprintf("node %s | main height %d | %d branches | %d validators | %d pending",
		node.ID(), heights[model.MainChain], len(heights)-1, len(active), len(pending)))
}

func HandleCommand(cmd chan commands.Command, server *full_node.FullNodeServer, g *gocui.Gui) {
	node := server.FullNode()
	for {
		c := <-cmd
		var (
			s   string
			err error
		)
		switch c.Op {
		case commands.SHOW:
			d, _ := strconv.Atoi(c.Args[0])
			var path string
			if path, err = server.Show(d); err == nil {
				s = "chains rendered to " + path
			}
		case commands.VERIFY:
			if s, err = healthTable(node.Verify()); err == nil {
				s = boxed("INTEGRITY", s)
			}
		case commands.RESUME:
			if err = server.ResumeChain(c.Args[0]); err == nil {
				s = "chain " + c.Args[0] + " resumed"
			}
		case commands.VALIDATORS:
			active, pending := node.Validators()
			if s, err = validatorsTable(active, pending); err == nil {
				s = boxed("VALIDATORS", s)
			}
		case commands.WALLETS:
			if s, err = walletsTable(node.Accounts()); err == nil {
				s = boxed("WALLETS", s)
			}
		case commands.HEIGHTS:
			if s, err = heightsTable(node.Heights()); err == nil {
				s = boxed("HEIGHTS", s)
			}
		case commands.RESIGN:
			if err = node.Resign(c.Args[0]); err == nil {
				s = c.Args[0] + " is no longer a validator"
			}
		case commands.AUDIT:
			var problems map[string]error
			if problems, err = node.Audit(); err == nil {
				if s, err = auditTable(problems); err == nil {
					s = boxed("AUDIT", s)
				}
			}
		case commands.DEACTIVATE:
			if err = node.Deactivate(c.Args[0]); err == nil {
				s = c.Args[0] + " is deactivated"
			}
		default:
			err = fmt.Errorf("unrecognized command: %v", c)
		}
		if err != nil {
			log.Println(err)
			continue
		}
		output(g, s)
		status(g, node)
	}
}

func openJournal(dir string) (journal.Journal, error) {
	if dir == "" {
		log.Println("no data dir configured, the ledger lives in memory only")
		return journal.Discard{}, nil
	}
	return journal.OpenLevelDB(dir)
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalln(err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// A command channel that takes console commands and handles them one at a time.
	cmd := make(chan commands.Command)
	g := ListenOnInput(cmd, *debugMode, stop)

	j, err := openJournal(cfg.DataDir)
	if err != nil {
		log.Fatalln(err)
	}
	node, err := full_node.NewFullNode(cfg, j)
	if err != nil {
		log.Fatalln(err)
	}
	defer node.Close()
	server := full_node.NewFullNodeServer(node)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	// A server that stops on its own ends the node like a signal does.
	failed := make(chan error, 2)
	grpcServer := grpc.NewServer()
	service.RegisterLedgerServiceServer(grpcServer, server)
	go func() {
		log.Println("serving wallets at port:", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			failed <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	httpServer := api.NewServer(node, cfg.HTTPPort, cfg.CORSOrigin)
	go func() {
		if err := httpServer.Start(); err != nil {
			failed <- fmt.Errorf("http server: %w", err)
		}
	}()

	status(g, node)
	go HandleCommand(cmd, server, g)

	var cause error
	select {
	case <-stop:
	case cause = <-failed:
		if g != nil {
			// Give the terminal back before logging to it.
			g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
			<-stop
		}
	}
	log.SetOutput(os.Stderr)
	if cause != nil {
		log.Println(cause)
	}
	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
	grpcServer.GracefulStop()
}
