package oracle

import "context"

// Oracle answers whether a candidate ciphertext (iv‖blocks) decrypts to a
// validly padded plaintext. A non-nil error means the oracle itself could not
// be reached or failed; it is never a padding verdict.
type Oracle interface {
	Query(ctx context.Context, candidate []byte) (bool, error)
}

// Counter is implemented by oracles that count how often they were queried.
type Counter interface {
	Queries() int64
}
