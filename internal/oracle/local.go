package oracle

import (
	"context"
	"crypto/aes"
	"sync/atomic"

	"cbc-secprobe/internal/cbc"
)

// Local decrypts candidates in-process under a fixed key. It models the classic
// vulnerable server: the caller never sees plaintext, only the padding verdict.
type Local struct {
	key     []byte
	queries atomic.Int64
}

func NewLocal(key []byte) (*Local, error) {
	if _, err := aes.NewCipher(key); err != nil { return nil, err }
	k := make([]byte, len(key))
	copy(k, key)
	return &Local{key: k}, nil
}

func (l *Local) Query(ctx context.Context, candidate []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.queries.Add(1)
	_, err := cbc.Decrypt(l.key, candidate)
	return err == nil, nil
}

func (l *Local) Queries() int64 { return l.queries.Load() }
