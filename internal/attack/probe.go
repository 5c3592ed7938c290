package attack

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"cbc-secprobe/internal/oracle"
	"cbc-secprobe/internal/report"
	"cbc-secprobe/pkg/logx"
)

type Options struct {
	Oracle     oracle.Oracle
	Ciphertext []byte
	BlockSize  int
	Target     string
	DryRun     bool
}

// Run drives the recovery attack against one oracle target and renders the
// outcome as a finding. A recovered plaintext is a FAIL for the target: the
// endpoint leaks its padding verdict. An oracle that yields no signal passes.
func Run(ctx context.Context, opt Options) (*report.Results, error) {
	if opt.BlockSize <= 0 || len(opt.Ciphertext) == 0 {
		return nil, ErrMalformedCiphertext
	}
	r := &report.Results{TargetType: "padding-oracle", GeneratedAt: time.Now().UTC()}
	if opt.Target != "" {
		r.Targets = []string{opt.Target}
	}
	if opt.DryRun {
		r.Add(report.Finding{
			Name:      "CBC padding oracle plaintext disclosure",
			Category:  "Chosen-ciphertext attacks",
			Severity:  report.Critical,
			Status:    report.Inconclusive,
			Evidence:  map[string]any{"note": "dry run: no oracle queries sent", "blocks": len(opt.Ciphertext)/opt.BlockSize - 1},
			Timestamp: time.Now().UTC(),
		})
		return r, nil
	}

	start := time.Now()
	plain, err := Decrypt(ctx, opt.Oracle, opt.Ciphertext, opt.BlockSize)
	elapsed := time.Since(start)

	evidence := map[string]any{
		"target":      opt.Target,
		"blocks":      len(opt.Ciphertext)/opt.BlockSize - 1,
		"duration_ms": elapsed.Milliseconds(),
	}
	if c, ok := opt.Oracle.(oracle.Counter); ok {
		evidence["oracle_queries"] = c.Queries()
	}

	switch {
	case err == nil:
		evidence["plaintext"] = string(plain)
		evidence["plaintext_hex"] = hex.EncodeToString(plain)
		logx.Infof("recovered %d plaintext bytes in %s", len(plain), elapsed)
		r.Add(report.Finding{
			Name:      "CBC padding oracle plaintext disclosure",
			Category:  "Chosen-ciphertext attacks",
			Severity:  report.Critical,
			Status:    report.Fail,
			Evidence:  evidence,
			Mitigations: []string{
				"Encrypt-then-MAC or switch to an AEAD mode (AES-GCM, XChaCha20-Poly1305)",
				"Return one indistinguishable error for every decryption failure",
			},
			Timestamp: time.Now().UTC(),
			Active:    true,
		})
	case errors.Is(err, ErrOracleInconsistency):
		evidence["error"] = err.Error()
		logx.Infof("no padding signal from target: %v", err)
		r.Add(report.Finding{
			Name:      "CBC padding oracle plaintext disclosure",
			Category:  "Chosen-ciphertext attacks",
			Severity:  report.Critical,
			Status:    report.Pass,
			Evidence:  evidence,
			Timestamp: time.Now().UTC(),
			Active:    true,
		})
	default:
		return nil, err
	}
	return r, nil
}
