package digest

import (
	"crypto/md5"  //nolint:gosec // legacy compatibility
	"crypto/sha1" //nolint:gosec // legacy compatibility
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/md4"       //nolint:staticcheck // legacy compatibility
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // legacy compatibility
	"golang.org/x/crypto/sha3"

	"go.step.sm/osslcompat/fipsutil"
)

// Factory returns a new hash.Hash in its initial state.
type Factory func() hash.Hash

var (
	mu       sync.RWMutex
	registry = map[string]engine{}
)

type engine struct {
	name string
	new  Factory
}

func init() {
	MustRegister("MD4", md4.New)
	MustRegister("MD5", md5.New)
	MustRegister("SHA", sha1.New)
	MustRegister("SHA-1", sha1.New)
	MustRegister("SHA-224", sha256.New224)
	MustRegister("SHA-256", sha256.New)
	MustRegister("SHA-384", sha512.New384)
	MustRegister("SHA-512", sha512.New)
	MustRegister("SHA-512/224", sha512.New512_224)
	MustRegister("SHA-512/256", sha512.New512_256)
	MustRegister("RIPEMD160", ripemd160.New)
	MustRegister("SHA3-224", sha3.New224)
	MustRegister("SHA3-256", sha3.New256)
	MustRegister("SHA3-384", sha3.New384)
	MustRegister("SHA3-512", sha3.New512)
	MustRegister("BLAKE2B-512", func() hash.Hash {
		h, _ := blake2b.New512(nil)
		return h
	})
	MustRegister("BLAKE2S-256", func() hash.Hash {
		h, _ := blake2s.New256(nil)
		return h
	})
}

// Register adds a hashing engine under the given canonical name. Names are
// matched case-insensitively. It fails if the name is empty, the factory is
// nil, or the name is already registered.
func Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("digest name cannot be empty")
	}
	if factory == nil {
		return errors.New("digest factory cannot be nil")
	}

	mu.Lock()
	defer mu.Unlock()
	key := strings.ToUpper(name)
	if _, ok := registry[key]; ok {
		return errors.Errorf("digest %s already registered", name)
	}
	registry[key] = engine{name: name, new: factory}
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(name string, factory Factory) {
	if err := Register(name, factory); err != nil {
		panic(err)
	}
}

// Supported returns the sorted list of registered canonical names.
func Supported() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for _, e := range registry {
		names = append(names, e.name)
	}
	sort.Strings(names)
	return names
}

// IsSupported reports whether the label resolves to a hashing engine.
func IsSupported(label string) bool {
	_, ok := lookup(Canonicalize(label))
	return ok
}

func lookup(name string) (engine, bool) {
	mu.RLock()
	e, ok := registry[strings.ToUpper(name)]
	mu.RUnlock()
	if !ok {
		return engine{}, false
	}
	if fipsutil.Only() && !fipsutil.DigestApproved(e.name) {
		return engine{}, false
	}
	return e, true
}
