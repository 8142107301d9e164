package solana

import "encoding/json"

// rpcRequest is a JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

// rpcResponse is a JSON-RPC 2.0 response envelope.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// contextValue wraps results that carry the slot they were observed at.
type contextValue[T any] struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value T `json:"value"`
}

// accountValue is the wire shape of an account in getAccountInfo responses.
// Data is a ["<base64>", "base64"] tuple.
type accountValue struct {
	Lamports uint64   `json:"lamports"`
	Owner    string   `json:"owner"`
	Data     []string `json:"data"`
}

// AccountInfo holds a decoded on-chain account.
type AccountInfo struct {
	Owner    string
	Lamports uint64
	Slot     uint64
	Data     []byte
}

// blockhashValue is the wire shape of getLatestBlockhash responses.
type blockhashValue struct {
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
}

// Blockhash holds a recent blockhash and its expiry height.
type Blockhash struct {
	Hash                 string
	LastValidBlockHeight uint64
}
