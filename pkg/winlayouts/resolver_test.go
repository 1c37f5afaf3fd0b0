package winlayouts_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/tamasv/winboard/pkg/winlayouts"
	"codeberg.org/tamasv/winboard/pkg/winlayouts/memory"
)

const (
	layoutsKey     = `SYSTEM\CurrentControlSet\Control\Keyboard Layouts`
	substitutesKey = `Keyboard Layout\Substitutes`
)

func addLayout(reg *memory.Registry, klid string, values map[string]string) {
	// parent key must exist for subkey enumeration
	if _, err := reg.OpenKey(winlayouts.LocalMachine, layoutsKey); err != nil {
		reg.SetKey(winlayouts.LocalMachine, layoutsKey, nil)
	}
	reg.SetKey(winlayouts.LocalMachine, layoutsKey+`\`+klid, values)
}

func TestResolveDefaultDevice(t *testing.T) {
	reg := memory.NewRegistry()
	addLayout(reg, "00000409", map[string]string{"Layout Text": "US"})
	resolver := winlayouts.NewResolver(reg, nil)

	require.Equal(t, "US", resolver.Resolve(0x00000409))

	// device equal to language is also the default device
	require.Equal(t, "US", resolver.Resolve(0x04090409))
}

func TestResolveDefaultDeviceIgnoresSubstitutes(t *testing.T) {
	reg := memory.NewRegistry()
	addLayout(reg, "00000409", map[string]string{"Layout Text": "US"})
	addLayout(reg, "00000407", map[string]string{"Layout Text": "German"})
	reg.SetKey(winlayouts.CurrentUser, substitutesKey, map[string]string{
		"00000409": "00000407",
	})
	resolver := winlayouts.NewResolver(reg, nil)

	require.Equal(t, "US", resolver.Resolve(0x00000409))
}

func TestResolvePrefersLocalizedDisplayName(t *testing.T) {
	reg := memory.NewRegistry()
	addLayout(reg, "00000409", map[string]string{
		"Layout Display Name": `@%SystemRoot%\system32\input.dll,-5000`,
		"Layout Text":         "US",
	})

	indirect := func(ref string) (string, error) {
		require.Equal(t, `@%SystemRoot%\system32\input.dll,-5000`, ref)
		return "English (United States)", nil
	}
	resolver := winlayouts.NewResolver(reg, indirect)
	require.Equal(t, "English (United States)", resolver.Resolve(0x00000409))

	failing := func(ref string) (string, error) {
		return "", errors.New("resource not found")
	}
	resolver = winlayouts.NewResolver(reg, failing)
	require.Equal(t, "US", resolver.Resolve(0x00000409))

	resolver = winlayouts.NewResolver(reg, nil)
	require.Equal(t, "US", resolver.Resolve(0x00000409))
}

func TestSubstitutionMatchOrder(t *testing.T) {
	const handle = winlayouts.Handle(0xF0020409)

	newRegistry := func() *memory.Registry {
		reg := memory.NewRegistry()
		addLayout(reg, "00010409", map[string]string{"Layout Text": "Exact Sub"})
		addLayout(reg, "00000407", map[string]string{"Layout Text": "Masked Sub"})
		addLayout(reg, "00000408", map[string]string{"Layout Text": "Language Sub"})
		return reg
	}

	t.Run("exact beats masked and language", func(t *testing.T) {
		reg := newRegistry()
		reg.SetKey(winlayouts.CurrentUser, substitutesKey, map[string]string{
			"F0020409": "00010409", // exact
			"00020409": "00000407", // masked (top nibble differs)
			"00000409": "00000408", // language only
		})
		resolver := winlayouts.NewResolver(reg, nil)
		require.Equal(t, "Exact Sub", resolver.Resolve(handle))
	})

	t.Run("masked beats language", func(t *testing.T) {
		reg := newRegistry()
		reg.SetKey(winlayouts.CurrentUser, substitutesKey, map[string]string{
			"00020409": "00000407",
			"00000409": "00000408",
		})
		resolver := winlayouts.NewResolver(reg, nil)
		require.Equal(t, "Masked Sub", resolver.Resolve(handle))
	})

	t.Run("language as last resort", func(t *testing.T) {
		reg := newRegistry()
		reg.SetKey(winlayouts.CurrentUser, substitutesKey, map[string]string{
			"00000409": "00000408",
		})
		resolver := winlayouts.NewResolver(reg, nil)
		require.Equal(t, "Language Sub", resolver.Resolve(handle))
	})

	t.Run("no match leaves handle unchanged", func(t *testing.T) {
		reg := newRegistry()
		addLayout(reg, "F0020409", map[string]string{"Layout Text": "Unsubstituted"})
		reg.SetKey(winlayouts.CurrentUser, substitutesKey, map[string]string{
			"00000807": "00000408",
		})
		resolver := winlayouts.NewResolver(reg, nil)
		require.Equal(t, "Unsubstituted", resolver.Resolve(handle))
	})
}

func TestExactMatchPreferredOverLayoutID(t *testing.T) {
	reg := memory.NewRegistry()
	addLayout(reg, "F0020409", map[string]string{"Layout Text": "Exact"})
	addLayout(reg, "00010409", map[string]string{
		"Layout Text": "ById",
		"Layout Id":   "0002",
	})
	resolver := winlayouts.NewResolver(reg, nil)

	require.Equal(t, "Exact", resolver.Resolve(0xF0020409))
}

func TestLayoutIDMatch(t *testing.T) {
	reg := memory.NewRegistry()
	addLayout(reg, "00010409", map[string]string{
		"Layout Text": "ById",
		"Layout Id":   "0002",
	})
	resolver := winlayouts.NewResolver(reg, nil)

	require.Equal(t, "ById", resolver.Resolve(0xF0020409))
}

func TestLayoutIDMismatchFallsToUnknown(t *testing.T) {
	// installed entry matches the language but its stored layout id does
	// not equal the handle's device
	reg := memory.NewRegistry()
	addLayout(reg, "00020409", map[string]string{
		"Layout Text": "Wrong Variant",
		"Layout Id":   "0001",
	})
	resolver := winlayouts.NewResolver(reg, nil)

	require.Equal(t, winlayouts.UnknownLayoutName, resolver.Resolve(0xF0020409))
}

func TestResolveUnknownOnEmptyRegistry(t *testing.T) {
	resolver := winlayouts.NewResolver(memory.NewRegistry(), nil)

	require.Equal(t, winlayouts.UnknownLayoutName, resolver.Resolve(0x00000409))
	require.Equal(t, winlayouts.UnknownLayoutName, resolver.Resolve(0xF0020409))
}

func TestResolveStopsAtExactMatchWithoutName(t *testing.T) {
	reg := memory.NewRegistry()
	addLayout(reg, "F0020409", nil)
	addLayout(reg, "00010409", map[string]string{
		"Layout Text": "ById",
		"Layout Id":   "0002",
	})
	resolver := winlayouts.NewResolver(reg, nil)

	require.Equal(t, winlayouts.UnknownLayoutName, resolver.Resolve(0xF0020409))
}

func TestResolveSkipsUnparseableEntries(t *testing.T) {
	reg := memory.NewRegistry()
	addLayout(reg, "notahexkey", map[string]string{"Layout Text": "Bogus"})
	addLayout(reg, "00010409", map[string]string{
		"Layout Text": "ById",
		"Layout Id":   "0002",
	})
	reg.SetKey(winlayouts.CurrentUser, substitutesKey, map[string]string{
		"alsonothex": "00000407",
	})
	resolver := winlayouts.NewResolver(reg, nil)

	require.Equal(t, "ById", resolver.Resolve(0xF0020409))
}

func TestResolveIdempotent(t *testing.T) {
	reg := memory.NewRegistry()
	addLayout(reg, "00000409", map[string]string{"Layout Text": "US"})
	addLayout(reg, "00010409", map[string]string{
		"Layout Text": "Dvorak",
		"Layout Id":   "0002",
	})
	resolver := winlayouts.NewResolver(reg, nil)

	for _, handle := range []winlayouts.Handle{0x00000409, 0xF0020409, 0xDEADBEEF} {
		require.Equal(t, resolver.Resolve(handle), resolver.Resolve(handle))
	}
}
