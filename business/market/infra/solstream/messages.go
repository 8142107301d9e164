package solstream

import "encoding/json"

// subscribeRequest is the logsSubscribe JSON-RPC request.
type subscribeRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// mentionsFilter restricts the subscription to transactions mentioning
// the program.
type mentionsFilter struct {
	Mentions []string `json:"mentions"`
}

// commitmentOpts carries the commitment level for the subscription.
type commitmentOpts struct {
	Commitment string `json:"commitment"`
}

// inboundMessage is the envelope of everything the node pushes. Plain
// responses carry Result, notifications carry Method and Params.
type inboundMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uint64         `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  *notifyParams   `json:"params,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type notifyParams struct {
	Subscription uint64       `json:"subscription"`
	Result       notifyResult `json:"result"`
}

type notifyResult struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value logsValue `json:"value"`
}

// logsValue is the payload of a logsNotification.
type logsValue struct {
	Signature string          `json:"signature"`
	Err       json.RawMessage `json:"err"`
	Logs      []string        `json:"logs"`
}

// failed reports whether the observed transaction failed on chain.
func (v logsValue) failed() bool {
	return len(v.Err) > 0 && string(v.Err) != "null"
}
