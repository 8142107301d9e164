// Package solana provides a minimal JSON-RPC client for Solana nodes,
// covering the handful of methods the bot needs.
package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/solarb/solana-arb-bot/internal/apperror"
	"github.com/solarb/solana-arb-bot/internal/httpclient"
	"github.com/solarb/solana-arb-bot/internal/logger"
	"github.com/solarb/solana-arb-bot/internal/ratelimit"
)

const tracerName = "solana-rpc"

// ClientConfig holds configuration for the RPC client.
type ClientConfig struct {
	RPCURL            string
	Commitment        string        // processed, confirmed or finalized
	RequestTimeout    time.Duration
	RequestsPerMinute int           // 0 disables client-side rate limiting
}

// DefaultClientConfig returns sensible defaults for the given endpoint.
func DefaultClientConfig(rpcURL string) ClientConfig {
	return ClientConfig{
		RPCURL:         rpcURL,
		Commitment:     "confirmed",
		RequestTimeout: 10 * time.Second,
	}
}

// Client is a Solana JSON-RPC client.
type Client struct {
	config  ClientConfig
	http    *httpclient.Client
	limiter *ratelimit.Limiter
	logger  logger.LoggerInterface
	tracer  trace.Tracer
	nextID  atomic.Uint64
}

// NewClient creates a new RPC client.
func NewClient(cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("solana rpc url is required"))
	}
	if cfg.Commitment == "" {
		cfg.Commitment = "confirmed"
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	httpClient, err := httpclient.New(
		httpclient.WithProviderName("solana-rpc"),
		httpclient.WithRequestTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	c := &Client{
		config: cfg,
		http:   httpClient,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}

	if cfg.RequestsPerMinute > 0 {
		c.limiter = ratelimit.New(cfg.RequestsPerMinute)
	}

	return c, nil
}

// call performs a single JSON-RPC request and unmarshals result into out.
func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	ctx, span := c.tracer.Start(ctx, "solana.rpc",
		trace.WithAttributes(attribute.String("rpc.method", method)),
	)
	defer span.End()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			span.RecordError(err)
			return err
		}
	}

	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}

	var rpcResp rpcResponse
	resp, err := c.http.PostJSON(ctx, c.config.RPCURL, req, &rpcResp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return apperror.New(apperror.CodeSolanaConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext(method))
	}
	if resp.IsError() {
		err := fmt.Errorf("http status %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad status")
		return apperror.New(apperror.CodeSolanaRPCError,
			apperror.WithCause(err),
			apperror.WithContext(method))
	}
	if rpcResp.Error != nil {
		span.RecordError(rpcResp.Error)
		span.SetStatus(codes.Error, "rpc error")
		return apperror.New(apperror.CodeSolanaRPCError,
			apperror.WithCause(rpcResp.Error),
			apperror.WithContext(fmt.Sprintf("%s: rpc code %d", method, rpcResp.Error.Code)))
	}

	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			span.RecordError(err)
			return apperror.New(apperror.CodeInvalidFormat,
				apperror.WithCause(err),
				apperror.WithContext(method+": decode result"))
		}
	}

	span.SetStatus(codes.Ok, "ok")
	return nil
}

// GetAccountInfo fetches and base64-decodes the account at address.
func (c *Client) GetAccountInfo(ctx context.Context, address string) (*AccountInfo, error) {
	params := []any{
		address,
		map[string]any{
			"encoding":   "base64",
			"commitment": c.config.Commitment,
		},
	}

	var result contextValue[*accountValue]
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}
	if result.Value == nil {
		return nil, apperror.New(apperror.CodeAccountNotFound,
			apperror.WithContext(address))
	}

	var data []byte
	if len(result.Value.Data) > 0 && result.Value.Data[0] != "" {
		raw, err := base64.StdEncoding.DecodeString(result.Value.Data[0])
		if err != nil {
			return nil, apperror.New(apperror.CodeInvalidFormat,
				apperror.WithCause(err),
				apperror.WithContext("account data for "+address))
		}
		data = raw
	}

	return &AccountInfo{
		Owner:    result.Value.Owner,
		Lamports: result.Value.Lamports,
		Slot:     result.Context.Slot,
		Data:     data,
	}, nil
}

// GetLatestBlockhash fetches a recent blockhash for transaction assembly.
func (c *Client) GetLatestBlockhash(ctx context.Context) (*Blockhash, error) {
	params := []any{
		map[string]any{"commitment": c.config.Commitment},
	}

	var result contextValue[blockhashValue]
	if err := c.call(ctx, "getLatestBlockhash", params, &result); err != nil {
		return nil, apperror.New(apperror.CodeBlockhashFetchFailed,
			apperror.WithCause(err))
	}

	return &Blockhash{
		Hash:                 result.Value.Blockhash,
		LastValidBlockHeight: result.Value.LastValidBlockHeight,
	}, nil
}

// SendTransaction submits a base64-encoded transaction and returns its
// signature.
func (c *Client) SendTransaction(ctx context.Context, txBase64 string) (string, error) {
	params := []any{
		txBase64,
		map[string]any{
			"encoding":            "base64",
			"preflightCommitment": c.config.Commitment,
		},
	}

	var signature string
	if err := c.call(ctx, "sendTransaction", params, &signature); err != nil {
		return "", err
	}
	return signature, nil
}

// GetHealth returns nil when the node reports itself healthy.
func (c *Client) GetHealth(ctx context.Context) error {
	var status string
	if err := c.call(ctx, "getHealth", nil, &status); err != nil {
		return err
	}
	if status != "ok" {
		return apperror.New(apperror.CodeServiceUnavailable,
			apperror.WithContext("node health: "+status))
	}
	return nil
}
