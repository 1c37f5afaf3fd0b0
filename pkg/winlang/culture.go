//go:build windows

package winlang

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/text/language"

	"codeberg.org/tamasv/winboard/pkg/winlayouts"
)

const localeNameMaxLength = 85 // LOCALE_NAME_MAX_LENGTH

var (
	ErrNilCulture         = errors.New("culture is undefined")
	ErrNoLayoutForCulture = errors.New("no installed layout for culture")
)

// Culture maps a layout handle's language identifier to a BCP-47 tag.
func (c *Client) Culture(layout winlayouts.Handle) (language.Tag, error) {
	buf := make([]uint16, localeNameMaxLength)
	n, _, _ := procLCIDToLocaleName.Call(
		uintptr(uint32(layout.Language())),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		0,
	)
	if n == 0 {
		return language.Und, fmt.Errorf("no locale name for language 0x%04X", layout.Language())
	}

	tag, err := language.Parse(windows.UTF16ToString(buf))
	if err != nil {
		return language.Und, fmt.Errorf("parse locale name: %w", err)
	}
	return tag, nil
}

// FromCulture returns the installed layout matching tag, preferring an
// exact tag match over a shared base language. An undefined tag is
// rejected with ErrNilCulture.
func (c *Client) FromCulture(tag language.Tag) (winlayouts.Handle, error) {
	if tag == language.Und {
		return 0, ErrNilCulture
	}

	layouts, err := c.Layouts()
	if err != nil {
		return 0, fmt.Errorf("list layouts: %w", err)
	}

	for _, layout := range layouts {
		got, err := c.Culture(layout)
		if err == nil && got == tag {
			return layout, nil
		}
	}

	base, _ := tag.Base()
	for _, layout := range layouts {
		got, err := c.Culture(layout)
		if err != nil {
			continue
		}
		if b, _ := got.Base(); b == base {
			return layout, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrNoLayoutForCulture, tag)
}
