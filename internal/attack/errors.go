package attack

import "errors"

var (
	// ErrMalformedCiphertext rejects inputs that are not an IV plus at least
	// one whole block.
	ErrMalformedCiphertext = errors.New("attack: ciphertext must be a block multiple of at least two blocks")

	// ErrInvalidPrecondition means the padding-length probe was invoked on a
	// forged block the oracle does not already accept.
	ErrInvalidPrecondition = errors.New("attack: forged block does not currently decrypt to valid padding")

	// ErrOracleInconsistency means an exhaustive 256-value search produced no
	// valid verdict; the oracle is non-deterministic, silent, or not leaking.
	ErrOracleInconsistency = errors.New("attack: byte search exhausted without a valid padding verdict")

	// ErrOracleUnavailable wraps transport-level oracle failures, which are
	// never conflated with a padding-invalid verdict.
	ErrOracleUnavailable = errors.New("attack: oracle unavailable")

	// ErrInvalidFinalPadding means the fully recovered plaintext does not end
	// in parseable padding, indicating a recovery bug or a non-CBC message.
	ErrInvalidFinalPadding = errors.New("attack: recovered plaintext has invalid final padding")
)
