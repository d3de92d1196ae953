package commands

import (
	"errors"
	"strconv"
	"strings"
)

type Operation int

// Ports of the node's gRPC endpoint.
const PORT_REGEX = "^[0-9]{2,5}$"

const (
	DEFAULT = iota
	// Render the last blocks of every chain to a graphviz file.
	SHOW
	// Verify every chain, halting the ones that fail.
	VERIFY
	// Lift the halt of a chain after it verifies again.
	RESUME
	// List validators and pending candidates.
	VALIDATORS
	// List wallets and their balances.
	WALLETS
	// Print the height of every chain.
	HEIGHTS
	// Remove a department from the validator set.
	RESIGN
	// Check every balance against the ledger.
	AUDIT
	// Stop a department wallet from logging in.
	DEACTIVATE
)

// A command contains a operation and many arguments.
type Command struct {
	Op   Operation
	Args []string
}

func (c Command) IsValid() bool {
	switch c.Op {
	case VERIFY, VALIDATORS, WALLETS, HEIGHTS, AUDIT:
		return len(c.Args) == 0
	case RESUME, RESIGN, DEACTIVATE:
		return len(c.Args) == 1 && c.Args[0] != ""
	case SHOW:
		if len(c.Args) != 1 {
			return false
		}
		// depth must be a number.
		if _, err := strconv.Atoi(c.Args[0]); err != nil {
			return false
		}
		return true
	default:
		return false
	}
}

// split breaks a console line into words, ignoring repeated blanks.
func split(s string) []string {
	return strings.Fields(strings.TrimSpace(s))
}

// From string, create a node console command.
func CreateCommand(s string) (Command, error) {
	ss := split(s)
	if len(ss) == 0 {
		return Command{}, errors.New("command is empty")
	}
	cmd := Command{}
	switch ss[0] {
	case "show":
		cmd.Op = SHOW
	case "verify":
		cmd.Op = VERIFY
	case "resume":
		cmd.Op = RESUME
	case "validators":
		cmd.Op = VALIDATORS
	case "wallets":
		cmd.Op = WALLETS
	case "heights":
		cmd.Op = HEIGHTS
	case "resign":
		cmd.Op = RESIGN
	case "audit":
		cmd.Op = AUDIT
	case "deactivate":
		cmd.Op = DEACTIVATE
	}
	cmd.Args = ss[1:]
	if !cmd.IsValid() {
		return Command{}, errors.New("invalid command")
	}
	return cmd, nil
}
