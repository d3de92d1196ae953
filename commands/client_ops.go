package commands

import (
	"errors"
	"net"
	"regexp"
	"strconv"
)

const (
	// do nothing operation
	NOOP = iota
	// Connect to a full node with ip address and port
	CONNECT
	// Create a department wallet and log into it
	REGISTER
	// Log into an existing wallet
	LOGIN
	// Transfer to another department
	TRANSFER
	// Pay a vendor out of the branch
	PAY
	// Get my own balance
	GET_BALANCE
	// Apply to become a validator
	APPLY
	// Vote for a pending candidate
	VOTE
	// Step down as validator
	RESIGN_SELF
	// List validators
	LIST_VALIDATORS
)

type ClientCommand struct {
	Op   Operation
	Args []string
}

func isAmount(s string) bool {
	v, err := strconv.ParseUint(s, 10, 64)
	return err == nil && v > 0
}

func (c ClientCommand) IsValid() bool {
	switch c.Op {
	case TRANSFER, PAY:
		return len(c.Args) == 2 && isAmount(c.Args[1])
	case REGISTER, LOGIN:
		return len(c.Args) == 2
	case VOTE:
		return len(c.Args) == 1
	case GET_BALANCE, APPLY, RESIGN_SELF, LIST_VALIDATORS:
		return len(c.Args) == 0
	case CONNECT:
		if len(c.Args) != 2 {
			return false
		}
		ipAddr := c.Args[0]
		port := c.Args[1]
		ip := net.ParseIP(ipAddr)

		portRegex, _ := regexp.Compile(PORT_REGEX)
		return ip != nil && ip.To4() != nil && portRegex.Match([]byte(port))
	default:
		return false
	}
}

func CreateClientCommand(s string) (ClientCommand, error) {
	ss := split(s)
	if len(ss) == 0 {
		return ClientCommand{}, errors.New("command is empty")
	}
	cmd := ClientCommand{}
	switch ss[0] {
	case "connect":
		cmd.Op = CONNECT
	case "register":
		cmd.Op = REGISTER
	case "login":
		cmd.Op = LOGIN
	case "transfer":
		cmd.Op = TRANSFER
	case "pay":
		cmd.Op = PAY
	case "get_balance":
		cmd.Op = GET_BALANCE
	case "apply":
		cmd.Op = APPLY
	case "vote":
		cmd.Op = VOTE
	case "resign":
		cmd.Op = RESIGN_SELF
	case "validators":
		cmd.Op = LIST_VALIDATORS
	default:
		cmd.Op = NOOP
	}
	cmd.Args = ss[1:]
	if !cmd.IsValid() {
		return ClientCommand{}, errors.New("invalid command")
	}
	return cmd, nil
}
