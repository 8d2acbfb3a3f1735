package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/storefront-labs/storefront-backend/pkg/config"
)

// ErrInvalidHash signals a stored credential that is not a PHC-style
// $argon2id$v=19$m=..,t=..,p=..$salt$key string.
var ErrInvalidHash = errors.New("invalid argon2id hash")

var b64 = base64.RawStdEncoding

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	saltLen uint32
	keyLen  uint32
}

func (p argonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

func (p argonParams) encode(salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads, b64.EncodeToString(salt), b64.EncodeToString(key))
}

// HashPassword derives a salted Argon2id credential for a customer password.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	params := paramsFromConfig(cfg)
	salt := make([]byte, params.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return params.encode(salt, params.derive(password, salt)), nil
}

// VerifyPassword reports whether password matches the stored credential.
func VerifyPassword(password, encoded string) (bool, error) {
	params, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(key, params.derive(password, salt)) == 1, nil
}

// NeedsRehash reports whether a stored credential was produced with
// parameters other than the configured ones. Login uses it to upgrade hashes.
func NeedsRehash(encoded string, cfg config.PasswordConfig) bool {
	stored, _, _, err := decodeHash(encoded)
	if err != nil {
		return true
	}
	return stored != paramsFromConfig(cfg)
}

func paramsFromConfig(cfg config.PasswordConfig) argonParams {
	return argonParams{
		memory:  uint32(clamp(cfg.ArgonMemoryKB, 8, 512*1024)),
		time:    uint32(clamp(cfg.ArgonTime, 1, 10)),
		threads: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		saltLen: uint32(clamp(cfg.ArgonSaltLen, 8, 64)),
		keyLen:  uint32(clamp(cfg.ArgonKeyLen, 16, 64)),
	}
}

func decodeHash(encoded string) (argonParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return argonParams{}, nil, nil, ErrInvalidHash
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return argonParams{}, nil, nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidHash, parts[2])
	}

	var params argonParams
	var seen int
	for _, token := range strings.Split(parts[3], ",") {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			return argonParams{}, nil, nil, ErrInvalidHash
		}
		var bits int
		switch key {
		case "m", "t":
			bits = 32
		case "p":
			bits = 8
		default:
			return argonParams{}, nil, nil, ErrInvalidHash
		}
		n, err := strconv.ParseUint(value, 10, bits)
		if err != nil || n == 0 {
			return argonParams{}, nil, nil, ErrInvalidHash
		}
		switch key {
		case "m":
			params.memory = uint32(n)
		case "t":
			params.time = uint32(n)
		case "p":
			params.threads = uint8(n)
		}
		seen++
	}
	if seen != 3 {
		return argonParams{}, nil, nil, ErrInvalidHash
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return argonParams{}, nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return argonParams{}, nil, nil, ErrInvalidHash
	}
	params.saltLen = uint32(len(salt))
	params.keyLen = uint32(len(key))

	return params, salt, key, nil
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
