package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Luismorlan/dept_ledger/commands"
	"github.com/Luismorlan/dept_ledger/layout"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/Luismorlan/dept_ledger/wallet"
	"github.com/jroimartin/gocui"
)

var (
	nodeIP    *string
	nodePort  *string
	debugMode *bool
)

func init() {
	nodeIP = flag.String("node_ip", "", "full node to connect to at startup")
	nodePort = flag.String("node_port", "10000", "gRPC port of the full node")
	debugMode = flag.Bool("debug_mode", false, "Using debug mode will disable fancy GUI.")
}

// Return a gui handle if not in debug mode.
func ListenOnInput(cmd chan commands.ClientCommand, debugMode bool) *gocui.Gui {
	if debugMode {
		go ParseCommand(cmd)
		return nil
	}
	g, err := layout.CreateGui(cmd, "wallet/cmd/usage.txt")
	if err != nil {
		log.Fatalln(err)
	}
	log.SetOutput(layout.LogWriter(g))
	go func() {
		if err := g.MainLoop(); err != nil {
			g.Close()
			if err == gocui.ErrQuit {
				os.Exit(0)
			}
			os.Exit(1)
		}
	}()
	return g
}

func main() {
	flag.Parse()

	cmd := make(chan commands.ClientCommand)
	// Start listening on input.
	g := ListenOnInput(cmd, *debugMode)
	w := wallet.NewWallet(g)
	if *nodeIP != "" {
		if err := w.SetFullNodeConnection(*nodeIP, *nodePort); err != nil {
			w.Log("failed to connect to full node: " + err.Error())
		} else {
			w.Log("connected full node endpoint " + *nodeIP + ":" + *nodePort)
		}
	}

	go HandleCommand(cmd, w)

	c := make(chan int)
	<-c
}

// Parse command from stdio.
func ParseCommand(cmd chan commands.ClientCommand) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		c, err := commands.CreateClientCommand(text)
		if err != nil {
			log.Println(err)
			continue
		}
		cmd <- c
	}
}

func describe(r model.Receipt) string {
	blocks := make([]string, 0, len(r.Blocks))
	for _, b := range r.Blocks {
		blocks = append(blocks, fmt.Sprintf("%s#%d", b.Chain, b.Index))
	}
	return fmt.Sprintf("transaction %s of %d committed to %s", r.TransactionID, r.Amount, strings.Join(blocks, ", "))
}

func describeCandidacy(s model.CandidacyStatus) string {
	msg := fmt.Sprintf("%s is %s with %d/%d votes", s.Candidate, s.State, len(s.Votes), s.Threshold)
	if len(s.Unmet) > 0 {
		msg += ", unmet: " + strings.Join(s.Unmet, "; ")
	}
	return msg
}

func HandleCommand(cmd chan commands.ClientCommand, w *wallet.Wallet) {
	for {
		c := <-cmd
		switch c.Op {
		case commands.CONNECT:
			ipAddr := c.Args[0]
			port := c.Args[1]
			err := w.SetFullNodeConnection(ipAddr, port)
			if err != nil {
				w.Log("failed to connect to full node endpoint " + ipAddr + ":" + port)
				continue
			}
			w.Log("connected full node endpoint " + ipAddr + ":" + port)
		case commands.REGISTER:
			res, err := w.Register(c.Args[0], c.Args[1])
			if err != nil {
				w.Log("fail to register: " + err.Error())
				continue
			}
			w.Log(fmt.Sprintf("registered %s with balance %d", res.Address, res.Balance))
		case commands.LOGIN:
			balance, err := w.Login(c.Args[0], c.Args[1])
			if err != nil {
				w.Log("fail to login: " + err.Error())
				continue
			}
			w.Log(fmt.Sprintf("logged in as %s, balance %d", c.Args[0], balance))
		case commands.GET_BALANCE:
			v, err := w.GetBalance()
			if err != nil {
				w.Log("fail to get balance: " + err.Error())
				continue
			}
			w.Log(fmt.Sprintf("your total balance is: %d", v))
		case commands.TRANSFER, commands.PAY:
			amount, _ := strconv.ParseUint(c.Args[1], 10, 64)
			var (
				r   model.Receipt
				err error
			)
			if c.Op == commands.TRANSFER {
				r, err = w.TransferMoney(c.Args[0], amount)
			} else {
				r, err = w.PayVendor(c.Args[0], amount)
			}
			if err != nil {
				w.Log("fail to transfer money: " + err.Error())
				continue
			}
			w.Log(describe(r))
		case commands.APPLY:
			s, err := w.ApplyForValidator()
			if err != nil {
				w.Log("fail to apply: " + err.Error())
				continue
			}
			w.Log(describeCandidacy(s))
		case commands.VOTE:
			s, err := w.Vote(c.Args[0])
			if err != nil {
				w.Log("fail to vote: " + err.Error())
				continue
			}
			w.Log(describeCandidacy(s))
		case commands.RESIGN_SELF:
			if err := w.Resign(); err != nil {
				w.Log("fail to resign: " + err.Error())
				continue
			}
			w.Log(w.Address() + " is no longer a validator")
		case commands.LIST_VALIDATORS:
			res, err := w.Validators()
			if err != nil {
				w.Log("fail to list validators: " + err.Error())
				continue
			}
			w.Log("validators: " + strings.Join(res.Validators, ", "))
			candidates := make([]string, 0, len(res.Pending))
			for candidate := range res.Pending {
				candidates = append(candidates, candidate)
			}
			sort.Strings(candidates)
			for _, candidate := range candidates {
				w.Log(fmt.Sprintf("pending %s, votes from: %s", candidate, strings.Join(res.Pending[candidate], ", ")))
			}
		default:
			w.Log(fmt.Sprintf("Unimplemented command: %d", c.Op))
		}
	}
}
