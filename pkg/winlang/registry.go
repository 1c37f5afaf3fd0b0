//go:build windows

package winlang

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
	wreg "golang.org/x/sys/windows/registry"

	"codeberg.org/tamasv/winboard/pkg/winlayouts"
)

// SystemRegistry implements winlayouts.Registry on the real Windows
// registry, read-only.
type SystemRegistry struct{}

func NewRegistry() SystemRegistry {
	return SystemRegistry{}
}

func (SystemRegistry) OpenKey(hive winlayouts.Hive, path string) (winlayouts.Key, error) {
	var root wreg.Key
	switch hive {
	case winlayouts.LocalMachine:
		root = wreg.LOCAL_MACHINE
	case winlayouts.CurrentUser:
		root = wreg.CURRENT_USER
	default:
		return nil, fmt.Errorf("unknown hive %v", hive)
	}

	key, err := wreg.OpenKey(root, path, wreg.READ)
	if errors.Is(err, wreg.ErrNotExist) {
		return nil, winlayouts.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open %s\\%s: %w", hive, path, err)
	}
	return systemKey{key}, nil
}

type systemKey struct {
	key wreg.Key
}

func (k systemKey) StringValue(name string) (string, error) {
	value, _, err := k.key.GetStringValue(name)
	if errors.Is(err, wreg.ErrNotExist) {
		return "", winlayouts.ErrValueNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read value %q: %w", name, err)
	}
	return value, nil
}

func (k systemKey) SubKeyNames() ([]string, error) {
	return k.key.ReadSubKeyNames(-1)
}

func (k systemKey) ValueNames() ([]string, error) {
	return k.key.ReadValueNames(-1)
}

func (k systemKey) Close() error {
	return k.key.Close()
}

// LoadIndirectString resolves a "@dll,-resource" display-name reference to
// its localized text. Failure is the caller's cue to fall back, not an
// error condition to surface.
func LoadIndirectString(ref string) (string, error) {
	src, err := windows.UTF16PtrFromString(ref)
	if err != nil {
		return "", fmt.Errorf("encode reference: %w", err)
	}

	buf := make([]uint16, 512)
	hr, _, _ := procSHLoadIndirectString.Call(
		uintptr(unsafe.Pointer(src)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		0,
	)
	if hr != 0 {
		return "", fmt.Errorf("load indirect string: HRESULT 0x%08X", uint32(hr))
	}
	return windows.UTF16ToString(buf), nil
}
