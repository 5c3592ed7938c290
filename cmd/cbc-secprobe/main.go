package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cbc-secprobe/internal/attack"
	"cbc-secprobe/internal/cbc"
	"cbc-secprobe/internal/oracle"
	"cbc-secprobe/internal/report"
	"cbc-secprobe/pkg/logx"
)

var (
	flagTarget     string
	flagCiphertext string
	flagIn         string
	flagBlockSize  int
	flagOut        string
	flagHTML       string
	flagPDF        string
	flagTimeout    time.Duration
	flagLogLevel   string
	flagDryRun     bool
)

func main() {
	root := &cobra.Command{
		Use:   "cbc-secprobe",
		Short: "Probe CBC endpoints for padding oracles and recover plaintext",
	}

	root.PersistentFlags().StringVar(&flagTarget, "target", env("CSP_TARGET", ""), "Base URL of the oracle endpoint (http[s]://)")
	root.PersistentFlags().StringVar(&flagCiphertext, "ciphertext", "", "Intercepted ciphertext, hex or base64 (iv||blocks)")
	root.PersistentFlags().StringVar(&flagIn, "in", "", "Read the intercepted ciphertext from a file instead")
	root.PersistentFlags().IntVar(&flagBlockSize, "block-size", envInt("CSP_BLOCK_SIZE", 16), "Cipher block size in bytes")
	root.PersistentFlags().StringVar(&flagOut, "out", env("CSP_OUT", "report.json"), "JSON report output path")
	root.PersistentFlags().StringVar(&flagHTML, "html", "", "HTML report output path")
	root.PersistentFlags().StringVar(&flagPDF, "pdf", "", "PDF report output path")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", envDuration("CSP_TIMEOUT", 5*time.Minute), "Global timeout")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug,info,warn,error")
	root.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Print actions without sending oracle queries")

	probe := &cobra.Command{Use: "probe", Short: "Run padding-oracle probes"}
	probe.AddCommand(cmdProbeURL())
	probe.AddCommand(cmdProbeLocal())
	serve := &cobra.Command{Use: "serve", Short: "Run the demo target"}
	serve.AddCommand(cmdServeOracle())
	root.AddCommand(probe)
	root.AddCommand(serve)
	root.AddCommand(cmdReport())

	if err := root.Execute(); err != nil {
		if ee, ok := err.(exitError); ok {
			fmt.Fprintln(os.Stderr, ee.err)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
}

func cmdProbeURL() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Attack a remote HTTP padding oracle",
		RunE: func(cmd *cobra.Command, args []string) error {
			logx.SetLevel(flagLogLevel)
			if flagTarget == "" {
				return exitCodeErr(3, fmt.Errorf("--target or CSP_TARGET required"))
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
			defer cancel()

			o := oracle.NewHTTP(flagTarget)
			ct, err := loadCiphertext()
			if err != nil {
				return exitCodeErr(3, err)
			}
			if ct == nil {
				logx.Infof("no ciphertext supplied; fetching the target's sample")
				ct, err = o.FetchCiphertext(ctx)
				if err != nil {
					return exitCodeErr(4, err)
				}
			}
			res, err := attack.Run(ctx, attack.Options{
				Oracle:     o,
				Ciphertext: ct,
				BlockSize:  flagBlockSize,
				Target:     flagTarget,
				DryRun:     flagDryRun,
			})
			if err != nil {
				return exitCodeErr(4, err)
			}
			return writeReports(res)
		},
	}
	return cmd
}

func cmdProbeLocal() *cobra.Command {
	var plaintext string
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Self-contained demo: encrypt a sample and recover it in-process",
		RunE: func(cmd *cobra.Command, args []string) error {
			logx.SetLevel(flagLogLevel)
			ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
			defer cancel()

			key := make([]byte, 16)
			iv := make([]byte, 16)
			if _, err := rand.Read(key); err != nil {
				return exitCodeErr(4, err)
			}
			if _, err := rand.Read(iv); err != nil {
				return exitCodeErr(4, err)
			}
			o, err := oracle.NewLocal(key)
			if err != nil {
				return exitCodeErr(4, err)
			}
			ct, err := cbc.Encrypt(key, iv, []byte(plaintext))
			if err != nil {
				return exitCodeErr(4, err)
			}
			logx.Infof("encrypted %d plaintext bytes into %d ciphertext bytes under a throwaway key", len(plaintext), len(ct))

			res, err := attack.Run(ctx, attack.Options{
				Oracle:     o,
				Ciphertext: ct,
				BlockSize:  flagBlockSize,
				Target:     "local",
				DryRun:     flagDryRun,
			})
			if err != nil {
				return exitCodeErr(4, err)
			}
			return writeReports(res)
		},
	}
	cmd.Flags().StringVar(&plaintext, "plaintext", oracle.DefaultSecret, "plaintext to encrypt and recover")
	return cmd
}

func cmdServeOracle() *cobra.Command {
	var addr, mode, secret string
	cmd := &cobra.Command{
		Use:   "oracle",
		Short: "Run the demo oracle server (cbc vulnerable, aead hardened)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logx.SetLevel(flagLogLevel)
			var sec []byte
			if secret != "" {
				sec = []byte(secret)
			}
			return oracle.Serve(addr, oracle.ServerOptions{Mode: mode, Secret: sec})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&mode, "mode", oracle.ModeCBC, "oracle mode: cbc or aead")
	cmd.Flags().StringVar(&secret, "secret", "", "override the sample secret")
	return cmd
}

func cmdReport() *cobra.Command {
	var in []string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Convert/merge JSON reports to HTML/PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(in) == 0 {
				return fmt.Errorf("provide at least one JSON via --in")
			}
			merged, err := report.MergeJSONFiles(in)
			if err != nil {
				return err
			}
			return writeReports(merged)
		},
	}
	cmd.Flags().StringSliceVar(&in, "in", nil, "input JSONs to merge")
	return cmd
}

func writeReports(res *report.Results) error {
	if flagOut != "" {
		b, _ := json.MarshalIndent(res, "", "  ")
		if err := os.WriteFile(flagOut, b, 0o644); err != nil {
			return err
		}
		logx.Infof("wrote JSON report: %s", flagOut)
	}
	if flagHTML != "" {
		html := report.RenderHTML(res)
		if err := os.WriteFile(flagHTML, []byte(html), 0o644); err != nil {
			return err
		}
		logx.Infof("wrote HTML report: %s", flagHTML)
	}
	if flagPDF != "" {
		if err := report.RenderPDFToFile(res, flagPDF); err != nil {
			logx.Warnf("PDF generation failed: %v", err)
			return nil
		}
		logx.Infof("wrote PDF report: %s", flagPDF)
	}
	if res.HasFindings() {
		return exitCodeErr(2, fmt.Errorf("findings present"))
	}
	return nil
}

// loadCiphertext decodes --ciphertext or --in, trying hex first and falling
// back to base64. Returns nil when neither flag was given.
func loadCiphertext() ([]byte, error) {
	s := flagCiphertext
	if s == "" && flagIn != "" {
		raw, err := os.ReadFile(flagIn)
		if err != nil {
			return nil, err
		}
		s = string(raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if b, err := hex.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("ciphertext is neither hex nor base64: %w", err)
	}
	return b, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil { return i }
	}
	return def
}
func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil { return d }
	}
	return def
}

type exitError struct{ code int; err error }
func (e exitError) Error() string { return e.err.Error() }
func exitCodeErr(code int, err error) error { return exitError{code: code, err: err} }

func init() { cobra.MousetrapHelpText = "" }
