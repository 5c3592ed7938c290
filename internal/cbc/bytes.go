package cbc

// XOR returns a XOR b, truncated to the shorter input.
func XOR(a, b []byte) []byte {
	n := len(a)
	if len(b) < n { n = len(b) }
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// SplitBlocks cuts data into blockSize chunks. The final chunk may be short
// if data is not block-aligned; callers validate alignment first.
func SplitBlocks(data []byte, blockSize int) [][]byte {
	var blocks [][]byte
	for i := 0; i < len(data); i += blockSize {
		end := i + blockSize
		if end > len(data) { end = len(data) }
		blocks = append(blocks, data[i:end])
	}
	return blocks
}
