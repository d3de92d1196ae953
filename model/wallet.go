package model

import "time"

// Credential is the salted argon2id digest of a wallet password.
type Credential struct {
	Salt   []byte `json:"salt"`
	Digest []byte `json:"digest"`
}

type WalletAccount struct {
	// Unique and stable identifier, derived from the department name.
	Address     string     `json:"address"`
	DisplayName string     `json:"display_name"`
	Credential  Credential `json:"credential"`
	// Balance credited at registration. The current balance is this plus the net flow of
	// every committed transaction touching the address.
	OpeningBalance uint64    `json:"opening_balance"`
	CreatedAt      time.Time `json:"created_at"`
	Active         bool      `json:"active"`
}
