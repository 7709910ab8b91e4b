package argon2

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// TestVector represents a single Argon2 known-answer test. Byte fields are
// hex-encoded; Password may instead be given as text in PasswordText.
type TestVector struct {
	Name         string `json:"name"`
	Variant      string `json:"variant"`
	Version      uint32 `json:"version"`
	Time         uint32 `json:"time"`
	Memory       uint32 `json:"memory"`
	Lanes        uint32 `json:"lanes"`
	Password     string `json:"password,omitempty"`
	PasswordText string `json:"password_text,omitempty"`
	Salt         string `json:"salt"`
	Secret       string `json:"secret,omitempty"`
	AD           string `json:"ad,omitempty"`
	Tag          string `json:"tag"`
	Encoded      string `json:"encoded,omitempty"`
}

// TestVectorSuite contains all test vectors with metadata about their source.
type TestVectorSuite struct {
	Description string       `json:"description"`
	Source      string       `json:"source,omitempty"`
	Vectors     []TestVector `json:"vectors"`
}

// LoadTestVectors loads test vectors from a JSON file.
func LoadTestVectors(path string) (*TestVectorSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test vectors: %w", err)
	}

	var suite TestVectorSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse test vectors: %w", err)
	}

	return &suite, nil
}

// Config returns the derivation parameters of the vector.
func (tv *TestVector) Config() (Config, error) {
	variant, err := ParseVariant(tv.Variant)
	if err != nil {
		return Config{}, err
	}
	expected, err := tv.Expected()
	if err != nil {
		return Config{}, err
	}
	secret, err := hex.DecodeString(tv.Secret)
	if err != nil {
		return Config{}, fmt.Errorf("invalid secret hex: %w", err)
	}
	ad, err := hex.DecodeString(tv.AD)
	if err != nil {
		return Config{}, fmt.Errorf("invalid ad hex: %w", err)
	}

	config := Config{
		Variant:        variant,
		Version:        Version(tv.Version),
		Time:           tv.Time,
		Memory:         tv.Memory,
		Lanes:          tv.Lanes,
		KeyLen:         uint32(len(expected)),
		Secret:         secret,
		AssociatedData: ad,
	}
	return config, config.Validate()
}

// Inputs returns the decoded password and salt.
func (tv *TestVector) Inputs() (password, salt []byte, err error) {
	if tv.PasswordText != "" {
		password = []byte(tv.PasswordText)
	} else if password, err = hex.DecodeString(tv.Password); err != nil {
		return nil, nil, fmt.Errorf("invalid password hex: %w", err)
	}
	if salt, err = hex.DecodeString(tv.Salt); err != nil {
		return nil, nil, fmt.Errorf("invalid salt hex: %w", err)
	}
	return password, salt, nil
}

// Expected returns the decoded expected tag.
func (tv *TestVector) Expected() ([]byte, error) {
	expected, err := hex.DecodeString(tv.Tag)
	if err != nil {
		return nil, fmt.Errorf("invalid expected tag: %w", err)
	}
	if len(expected) < MinKeyLength {
		return nil, fmt.Errorf("expected tag must be at least %d bytes, got %d", MinKeyLength, len(expected))
	}
	return expected, nil
}

// Run derives the tag described by the vector with the given worker count.
func (tv *TestVector) Run(threads int) ([]byte, error) {
	config, err := tv.Config()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tv.Name, err)
	}
	config.Threads = threads

	password, salt, err := tv.Inputs()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tv.Name, err)
	}

	hasher, err := New(config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tv.Name, err)
	}
	defer hasher.Close()

	return hasher.Hash(password, salt)
}

// Check runs the vector and compares the result with the expected tag.
func (tv *TestVector) Check(threads int) error {
	got, err := tv.Run(threads)
	if err != nil {
		return err
	}
	if !compareTrace(traceLogger, tv.Name, tv.Tag, hex.EncodeToString(got)) {
		return fmt.Errorf("%s: got %x, want %s", tv.Name, got, tv.Tag)
	}
	if tv.Encoded == "" {
		return nil
	}

	password, _, err := tv.Inputs()
	if err != nil {
		return err
	}
	if err := CompareHashAndPassword(tv.Encoded, password); err != nil {
		return fmt.Errorf("%s: encoded form: %w", tv.Name, err)
	}
	return nil
}
