package utils

import (
	"time"

	"github.com/Luismorlan/dept_ledger/model"
	uuid "github.com/satori/go.uuid"
)

// Create a transaction stamped with the given time and a fresh id.
func NewTransaction(sender, receiver string, amount uint64, now time.Time) model.Transaction {
	return model.Transaction{
		ID:        uuid.NewV4().String(),
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		Timestamp: now.Unix(),
	}
}

// Concat every field of the transaction, each string length prefixed.
func GetTransactionBytes(tx *model.Transaction) []byte {
	var data []byte
	data = append(data, StringToBytes(tx.ID)...)
	data = append(data, StringToBytes(tx.Sender)...)
	data = append(data, StringToBytes(tx.Receiver)...)
	data = append(data, Uint64ToBytes(tx.Amount)...)
	data = append(data, Int64ToBytes(tx.Timestamp)...)
	return data
}
