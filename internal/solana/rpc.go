package solana

import "context"

// RPCClient defines Solana RPC HTTP interface. GetTransaction is the only
// call the pipeline makes: component B fetches one confirmed transaction
// per surviving notification signature and nothing else in the system
// walks blocks or paginates an address's signature history.
type RPCClient interface {
	// GetTransaction retrieves a transaction by signature.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)
}

// Transaction represents a Solana transaction.
type Transaction struct {
	Slot      int64
	Signature string
	BlockTime int64 // Unix timestamp (seconds)
	Meta      *TransactionMeta
	Message   *TransactionMessage
}

// TransactionMeta contains transaction metadata.
type TransactionMeta struct {
	Err               interface{}
	LogMessages       []string
	PreTokenBalances  []TokenBalanceEntry
	PostTokenBalances []TokenBalanceEntry
}

// TokenBalanceEntry is one entry of the preTokenBalances/postTokenBalances
// arrays returned by getTransaction. Owner and Mint are base58 text;
// Amount is the raw integer token amount as a decimal string.
type TokenBalanceEntry struct {
	AccountIndex int
	Mint         string
	Owner        string
	Amount       string
	Decimals     int
}

// TransactionMessage contains parsed transaction message.
type TransactionMessage struct {
	AccountKeys []string
}
