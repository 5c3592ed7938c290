package cbc

import "errors"

// ErrBadPadding is the single padding failure the oracle side may observe.
var ErrBadPadding = errors.New("cbc: invalid padding")

// Pad appends PKCS#7 padding. A block-aligned input gains a full extra block
// so the padding length is always recoverable.
func Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

// Unpad validates and strips PKCS#7 padding. The declared length must be in
// 1..blockSize, fit inside the input, and every padding byte must carry it.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrBadPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrBadPadding
	}
	for _, b := range data[len(data)-n:] {
		if b != byte(n) {
			return nil, ErrBadPadding
		}
	}
	return data[:len(data)-n], nil
}
