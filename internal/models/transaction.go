package models

import "time"

type TransactionKind string

const (
	TxReward   TransactionKind = "reward"
	TxDeposit  TransactionKind = "deposit"
	TxWithdraw TransactionKind = "withdraw"
	TxSend     TransactionKind = "send"
)

// MaxTransactions caps the per-account history; older entries are dropped.
const MaxTransactions = 50

// Transaction is one balance-affecting event. Amount is always positive,
// the sign is implied by Kind.
type Transaction struct {
	ID          string          `json:"id"`
	Kind        TransactionKind `json:"type"`
	Amount      float64         `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
}

// Credit reports whether the transaction added to the balance.
func (t Transaction) Credit() bool {
	return t.Kind == TxReward || t.Kind == TxDeposit
}

func (t Transaction) SignedAmount() float64 {
	if t.Credit() {
		return t.Amount
	}
	return -t.Amount
}
