package argon2

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"lukechampine.com/frand"
)

const (
	// DefaultSaltLength is the salt size used by GenerateFromPassword.
	DefaultSaltLength = 16

	// DefaultMaxMemory is the memory ceiling, in KiB, that
	// CompareHashAndPassword applies to encoded hashes (4 GiB).
	DefaultMaxMemory = 4 * 1024 * 1024
)

// paramKeys are the parameter names of the PHC string, in encoding order.
var paramKeys = [3]string{"m", "t", "p"}

var b64 = base64.RawStdEncoding

// Encode formats a derived key in the PHC string format:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
//
// Salt and hash are base64 without padding.
func Encode(config Config, salt, hash []byte) string {
	var b strings.Builder
	b.WriteString("$")
	b.WriteString(config.Variant.String())
	b.WriteString("$v=")
	b.WriteString(strconv.FormatUint(uint64(config.Version), 10))
	fmt.Fprintf(&b, "$m=%d,t=%d,p=%d$", config.Memory, config.Time, config.Lanes)
	b.WriteString(b64.EncodeToString(salt))
	b.WriteString("$")
	b.WriteString(b64.EncodeToString(hash))
	return b.String()
}

// Decode parses a PHC string produced by Encode or libargon2. A missing
// version field means Version10. Numbers must be canonical decimals and
// the parameters exactly m, t and p in that order. The returned config has
// KeyLen set to the decoded hash length.
//
// Decode does not bound the memory parameter. Use
// CompareHashAndPasswordLimit before hashing encoded input from an
// untrusted source.
func Decode(encoded string) (config Config, salt, hash []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) == 5 {
		// $variant$params$salt$hash
		parts = append(parts[:2], append([]string{"v=16"}, parts[2:]...)...)
	}
	if len(parts) != 6 || parts[0] != "" {
		return Config{}, nil, nil, ErrInvalidHash
	}

	config.Variant, err = ParseVariant(parts[1])
	if err != nil {
		return Config{}, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	version, err := parseField(parts[2], "v")
	if err != nil {
		return Config{}, nil, nil, err
	}
	config.Version = Version(version)
	if config.Version != Version10 && config.Version != Version13 {
		return Config{}, nil, nil, fmt.Errorf("%w: v=%d", ErrIncompatibleVersion, version)
	}

	params := strings.Split(parts[3], ",")
	if len(params) != 3 {
		return Config{}, nil, nil, fmt.Errorf("%w: parameters %q", ErrInvalidHash, parts[3])
	}
	for i, dst := range []*uint32{&config.Memory, &config.Time, &config.Lanes} {
		if *dst, err = parseField(params[i], paramKeys[i]); err != nil {
			return Config{}, nil, nil, err
		}
	}

	salt, err = b64.DecodeString(parts[4])
	if err != nil {
		return Config{}, nil, nil, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	hash, err = b64.DecodeString(parts[5])
	if err != nil {
		return Config{}, nil, nil, fmt.Errorf("%w: hash: %v", ErrInvalidHash, err)
	}
	config.KeyLen = uint32(len(hash))

	if err := config.Validate(); err != nil {
		return Config{}, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return config, salt, hash, nil
}

// GenerateFromPassword hashes password with a random salt and returns the
// encoded result.
func GenerateFromPassword(password []byte, config Config) (string, error) {
	hasher, err := New(config)
	if err != nil {
		return "", err
	}
	defer hasher.Close()

	salt := frand.Bytes(DefaultSaltLength)
	hash, err := hasher.Hash(password, salt)
	if err != nil {
		return "", err
	}
	return Encode(config, salt, hash), nil
}

// CompareHashAndPassword compares an encoded hash with a plaintext
// password. It returns nil on success and ErrMismatchedHashAndPassword
// when the password is wrong. Encoded hashes asking for more than
// DefaultMaxMemory are rejected with ErrMemoryLimit.
func CompareHashAndPassword(encoded string, password []byte) error {
	return CompareHashAndPasswordLimit(encoded, password, DefaultMaxMemory)
}

// CompareHashAndPasswordLimit is like CompareHashAndPassword but rejects
// encoded hashes whose memory parameter exceeds maxMemory KiB before any
// memory is allocated.
func CompareHashAndPasswordLimit(encoded string, password []byte, maxMemory uint32) error {
	config, salt, want, err := Decode(encoded)
	if err != nil {
		return err
	}
	if config.Memory > maxMemory {
		return fmt.Errorf("%w: m=%d exceeds %d KiB", ErrMemoryLimit, config.Memory, maxMemory)
	}

	hasher, err := New(config)
	if err != nil {
		return err
	}
	defer hasher.Close()

	got, err := hasher.Hash(password, salt)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// parseField parses "key=value" where value is a canonical uint32 decimal.
func parseField(field, key string) (uint32, error) {
	value, ok := strings.CutPrefix(field, key+"=")
	if !ok {
		return 0, fmt.Errorf("%w: expected %s= in %q", ErrInvalidHash, key, field)
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil || strconv.FormatUint(n, 10) != value {
		return 0, fmt.Errorf("%w: bad %s value %q", ErrInvalidHash, key, value)
	}
	return uint32(n), nil
}
