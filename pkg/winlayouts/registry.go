package winlayouts

import "errors"

// Hive selects the registry root a path is resolved against.
type Hive int

const (
	LocalMachine Hive = iota
	CurrentUser
)

func (h Hive) String() string {
	switch h {
	case LocalMachine:
		return "HKLM"
	case CurrentUser:
		return "HKCU"
	}
	return "Hive(?)"
}

var (
	ErrKeyNotFound   = errors.New("registry key not found")
	ErrValueNotFound = errors.New("registry value not found")
)

// Registry is the read-only registry capability the resolver runs against.
// The real implementation lives in pkg/winlang; tests use the in-memory one
// from pkg/winlayouts/memory.
type Registry interface {
	OpenKey(hive Hive, path string) (Key, error)
}

// Key is an open registry key. Callers must Close every key they open.
type Key interface {
	StringValue(name string) (string, error)
	SubKeyNames() ([]string, error)
	ValueNames() ([]string, error)
	Close() error
}

// IndirectResolver turns an indirect display-name reference such as
// "@%SystemRoot%\system32\input.dll,-5000" into localized text. A failed or
// missing resolver is a normal fallback, not an error.
type IndirectResolver func(ref string) (string, error)
