// Command argon2 hashes and verifies passwords with Argon2.
//
// Usage:
//
//	argon2 hash [flags] PASSWORD
//	argon2 verify ENCODED PASSWORD
//	argon2 vectors [flags] FILE
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"lukechampine.com/frand"

	"github.com/opd-ai/go-argon2"
)

const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  argon2 hash [flags] PASSWORD     derive a hash and print it in PHC format
  argon2 verify ENCODED PASSWORD   check PASSWORD against an encoded hash
  argon2 vectors [flags] FILE      run a JSON known-answer suite

Run "argon2 <command> -h" for command flags.
`)
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	var err error
	switch args[0] {
	case "hash":
		err = runHash(args[1:], stdout, stderr)
	case "verify":
		err = runVerify(args[1:], stdout, stderr)
	case "vectors":
		err = runVectors(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return exitSuccess
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return exitUsage
	}

	var ue usageError
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, pflag.ErrHelp):
		return exitSuccess
	case errors.As(err, &ue):
		fmt.Fprintln(stderr, "argon2:", err)
		return exitUsage
	case errors.Is(err, argon2.ErrMismatchedHashAndPassword):
		fmt.Fprintln(stdout, "mismatch")
		return exitFailure
	default:
		fmt.Fprintln(stderr, "argon2:", err)
		return exitFailure
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

func runHash(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("hash", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	pf := newProfileFlags(fs)
	salt := fs.String("salt", "", "salt text (random 16 bytes when empty)")
	raw := fs.Bool("raw", false, "print the raw tag in hex instead of the PHC string")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError("hash takes exactly one PASSWORD argument")
	}

	p, err := pf.resolve()
	if err != nil {
		return err
	}
	log, err := newLogger(stderr, p.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	config, err := p.Config()
	if err != nil {
		return err
	}
	config.Logger = log

	password := []byte(fs.Arg(0))
	if *salt == "" && !*raw {
		encoded, err := argon2.GenerateFromPassword(password, config)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, encoded)
		return nil
	}

	saltBytes := []byte(*salt)
	if *salt == "" {
		saltBytes = frand.Bytes(argon2.DefaultSaltLength)
	}

	hasher, err := argon2.New(config)
	if err != nil {
		return err
	}
	defer hasher.Close()

	start := time.Now()
	tag, err := hasher.Hash(password, saltBytes)
	if err != nil {
		return err
	}
	log.Info("hashed password", zap.Duration("elapsed", time.Since(start)))

	if *raw {
		fmt.Fprintln(stdout, hex.EncodeToString(tag))
	} else {
		fmt.Fprintln(stdout, argon2.Encode(config, saltBytes, tag))
	}
	return nil
}

func runVerify(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("verify", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	logLevel := fs.String("log.level", "warn", "log level: debug, info, warn or error")
	maxMemory := fs.Uint32("max-memory", argon2.DefaultMaxMemory, "largest memory parameter in KiB to accept")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usageError("verify takes ENCODED and PASSWORD arguments")
	}

	log, err := newLogger(stderr, *logLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	start := time.Now()
	if err := argon2.CompareHashAndPasswordLimit(fs.Arg(0), []byte(fs.Arg(1)), *maxMemory); err != nil {
		return err
	}
	log.Info("verified password", zap.Duration("elapsed", time.Since(start)))
	fmt.Fprintln(stdout, "ok")
	return nil
}

func runVectors(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("vectors", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	threads := fs.Int("threads", 0, "worker goroutines (0 = min(lanes, GOMAXPROCS))")
	logLevel := fs.String("log.level", "warn", "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError("vectors takes exactly one FILE argument")
	}

	log, err := newLogger(stderr, *logLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	suite, err := argon2.LoadTestVectors(fs.Arg(0))
	if err != nil {
		return err
	}

	var failed int
	for i := range suite.Vectors {
		tv := &suite.Vectors[i]
		start := time.Now()
		if err := tv.Check(*threads); err != nil {
			failed++
			fmt.Fprintf(stdout, "FAIL %s: %v\n", tv.Name, err)
			continue
		}
		log.Debug("vector passed", zap.String("name", tv.Name), zap.Duration("elapsed", time.Since(start)))
		fmt.Fprintf(stdout, "ok   %s\n", tv.Name)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d vectors failed", failed, len(suite.Vectors))
	}
	return nil
}
