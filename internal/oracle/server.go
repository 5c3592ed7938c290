package oracle

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/crypto/chacha20poly1305"

	"cbc-secprobe/internal/cbc"
	"cbc-secprobe/pkg/logx"
)

// DefaultSecret is the sample plaintext the demo server encrypts.
const DefaultSecret = "Comic Sans is the best font! This is top-secret info that I'd rather not reveal..."

const (
	ModeCBC  = "cbc"  // vulnerable: distinct response for bad padding
	ModeAEAD = "aead" // hardened: authenticated encryption, no padding signal
)

type ServerOptions struct {
	Mode   string
	Secret []byte
}

// Server is the demo target. In CBC mode it leaks a padding verdict per
// request; in AEAD mode every forged input fails the same way.
type Server struct {
	mode       string
	key        []byte
	ciphertext []byte
}

func NewServer(opt ServerOptions) (*Server, error) {
	secret := opt.Secret
	if len(secret) == 0 { secret = []byte(DefaultSecret) }
	s := &Server{mode: opt.Mode}
	switch opt.Mode {
	case ModeCBC:
		s.key = make([]byte, 16)
		iv := make([]byte, 16)
		if _, err := rand.Read(s.key); err != nil { return nil, err }
		if _, err := rand.Read(iv); err != nil { return nil, err }
		ct, err := cbc.Encrypt(s.key, iv, secret)
		if err != nil { return nil, err }
		s.ciphertext = ct
	case ModeAEAD:
		s.key = make([]byte, chacha20poly1305.KeySize)
		if _, err := rand.Read(s.key); err != nil { return nil, err }
		aead, err := chacha20poly1305.NewX(s.key)
		if err != nil { return nil, err }
		nonce := make([]byte, chacha20poly1305.NonceSizeX)
		if _, err := rand.Read(nonce); err != nil { return nil, err }
		s.ciphertext = append(nonce, aead.Seal(nil, nonce, secret, nil)...)
	default:
		return nil, fmt.Errorf("unknown oracle mode %q", opt.Mode)
	}
	return s, nil
}

// open reports whether candidate decrypts cleanly under the server's key.
func (s *Server) open(candidate []byte) error {
	if s.mode == ModeAEAD {
		if len(candidate) < chacha20poly1305.NonceSizeX {
			return errors.New("candidate shorter than nonce")
		}
		aead, err := chacha20poly1305.NewX(s.key)
		if err != nil { return err }
		nonce, body := candidate[:chacha20poly1305.NonceSizeX], candidate[chacha20poly1305.NonceSizeX:]
		_, err = aead.Open(nil, nonce, body, nil)
		return err
	}
	_, err := cbc.Decrypt(s.key, candidate)
	return err
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ciphertext", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, hex.EncodeToString(s.ciphertext))
	})
	mux.HandleFunc("/oracle", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		candidate, err := hex.DecodeString(string(raw))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := s.open(candidate); err != nil {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Serve starts the demo oracle on addr and blocks.
func Serve(addr string, opt ServerOptions) error {
	s, err := NewServer(opt)
	if err != nil { return err }
	logx.Infof("demo %s oracle listening on %s", s.mode, addr)
	return http.ListenAndServe(addr, s.Handler())
}
