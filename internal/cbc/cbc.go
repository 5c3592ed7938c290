package cbc

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// Encrypt pads plaintext and CBC-encrypts it under key, returning iv‖blocks.
func Encrypt(key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil { return nil, err }
	if len(iv) != block.BlockSize() {
		return nil, errors.New("cbc: iv length does not match block size")
	}
	padded := Pad(plaintext, block.BlockSize())
	out := make([]byte, len(iv)+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[len(iv):], padded)
	return out, nil
}

// Decrypt interprets ciphertext as iv‖blocks, CBC-decrypts, and strips the
// padding. It returns ErrBadPadding when the padding does not parse.
func Decrypt(key, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil { return nil, err }
	bs := block.BlockSize()
	if len(ciphertext) < 2*bs || len(ciphertext)%bs != 0 {
		return nil, errors.New("cbc: ciphertext is not iv plus whole blocks")
	}
	iv, body := ciphertext[:bs], ciphertext[bs:]
	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, body)
	return Unpad(plain, bs)
}
