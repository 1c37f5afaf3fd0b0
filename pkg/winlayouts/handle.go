package winlayouts

import (
	"fmt"
	"strconv"
	"strings"
)

// Handle is a Windows keyboard layout handle (an HKL truncated to 32 bits).
// The low 16 bits carry the language identifier, bits 16-27 carry the device
// identifier that distinguishes multiple layouts for the same language.
type Handle uint32

func (h Handle) Language() uint16 {
	return uint16(h)
}

func (h Handle) Device() uint16 {
	return uint16(h>>16) & 0x0FFF
}

// IsDefaultDevice reports whether h refers to the default layout for its
// language: the device part is either zero or repeats the language.
func (h Handle) IsDefaultDevice() bool {
	device := h.Device()
	return device == 0 || device == h.Language()
}

// KLID returns the 8-hex-digit keyboard layout identifier form of the full
// handle, as used for the registry keys under Keyboard Layouts.
func (h Handle) KLID() string {
	return fmt.Sprintf("%08X", uint32(h))
}

// LanguageKLID returns the KLID of the default-device layout for the
// handle's language.
func (h Handle) LanguageKLID() string {
	return fmt.Sprintf("%08X", uint32(h.Language()))
}

func (h Handle) String() string {
	return "0x" + h.KLID()
}

// ParseHandle parses a hexadecimal layout handle such as "409", "00020409"
// or "0x00000409".
func ParseHandle(s string) (Handle, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse layout handle %q: %w", s, err)
	}
	return Handle(v), nil
}
