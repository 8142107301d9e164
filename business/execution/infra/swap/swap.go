// Package swap contains per-venue swap executors. Transactions are
// assembled unsigned; the configured RPC endpoint is a relay that signs
// with the operator's key before forwarding to the cluster.
package swap

import (
	"encoding/base64"
	"encoding/binary"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"

	"github.com/solarb/solana-arb-bot/internal/apperror"
)

const (
	solDecimals   = 9
	tokenDecimals = 6
)

// lamports converts a SOL amount to integer lamports, truncating
// anything below one lamport.
func lamports(sol decimal.Decimal) uint64 {
	return uint64(sol.Shift(solDecimals).IntPart())
}

// tokenRaw converts a token amount to its raw integer representation.
func tokenRaw(amount decimal.Decimal) uint64 {
	return uint64(amount.Shift(tokenDecimals).IntPart())
}

func appendU64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

// instruction is a single program invocation: the program, its account
// inputs in order, and the instruction data.
type instruction struct {
	program  string
	accounts []string
	data     []byte
}

// encodeTransaction serializes the instruction with its blockhash into
// the relay wire format and returns it base64 encoded. Layout: 32-byte
// blockhash, 32-byte program id, u8 account count, 32 bytes per
// account, u16 data length, data.
func encodeTransaction(blockhash string, ix instruction) (string, error) {
	hashBytes, err := base58.Decode(blockhash)
	if err != nil || len(hashBytes) != 32 {
		return "", apperror.New(apperror.CodeTradeRejected,
			apperror.WithMessage("invalid blockhash"),
			apperror.WithContext(blockhash),
		)
	}

	programBytes, err := base58.Decode(ix.program)
	if err != nil || len(programBytes) != 32 {
		return "", apperror.New(apperror.CodeTradeRejected,
			apperror.WithMessage("invalid program id"),
			apperror.WithContext(ix.program),
		)
	}

	buf := make([]byte, 0, 64+1+32*len(ix.accounts)+2+len(ix.data))
	buf = append(buf, hashBytes...)
	buf = append(buf, programBytes...)
	buf = append(buf, byte(len(ix.accounts)))

	for _, acc := range ix.accounts {
		accBytes, err := base58.Decode(acc)
		if err != nil || len(accBytes) != 32 {
			return "", apperror.New(apperror.CodeTradeRejected,
				apperror.WithMessage("invalid account address"),
				apperror.WithContext(acc),
			)
		}
		buf = append(buf, accBytes...)
	}

	var dataLen [2]byte
	binary.LittleEndian.PutUint16(dataLen[:], uint16(len(ix.data)))
	buf = append(buf, dataLen[:]...)
	buf = append(buf, ix.data...)

	return base64.StdEncoding.EncodeToString(buf), nil
}
