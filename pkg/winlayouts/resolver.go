// Package winlayouts models Windows keyboard layout handles and resolves
// their display names from the registry structures Windows keeps them in.
package winlayouts

import "strconv"

const (
	layoutsPath     = `SYSTEM\CurrentControlSet\Control\Keyboard Layouts`
	substitutesPath = `Keyboard Layout\Substitutes`

	displayNameValue = "Layout Display Name"
	layoutTextValue  = "Layout Text"
	layoutIDValue    = "Layout Id"

	// substitutionMask drops the top nibble when comparing substitution keys
	// against a handle. Inherited Windows behavior, rationale undocumented.
	substitutionMask = 0x0FFFFFFF
)

// UnknownLayoutName is returned when no registry path yields a name.
const UnknownLayoutName = "Unknown"

type Resolver struct {
	registry Registry
	indirect IndirectResolver
}

// NewResolver builds a resolver over the given registry. indirect may be
// nil, in which case localized display-name references are skipped and the
// legacy plain-text names are used.
func NewResolver(registry Registry, indirect IndirectResolver) *Resolver {
	return &Resolver{registry: registry, indirect: indirect}
}

// Resolve returns the display name for handle, or UnknownLayoutName. It
// never fails: missing keys, missing values and unparseable entries are
// treated as no data and fall through to the next lookup stage.
//
// Default-device handles are answered from the single per-language entry.
// Anything else goes through the user's substitution table, then an exact
// full-handle scan of the installed layouts, then a language scan matched
// against each entry's stored layout id.
func (r *Resolver) Resolve(handle Handle) string {
	if handle.IsDefaultDevice() {
		return r.nameForKLID(handle.LanguageKLID())
	}

	handle = r.substitute(handle)

	if name, ok := r.findExact(handle); ok {
		return name
	}
	if name, ok := r.findByLayoutID(handle); ok {
		return name
	}
	return UnknownLayoutName
}

func (r *Resolver) nameForKLID(klid string) string {
	key, err := r.registry.OpenKey(LocalMachine, layoutsPath+`\`+klid)
	if err != nil {
		return UnknownLayoutName
	}
	defer key.Close()

	return r.readName(key)
}

// readName prefers the localized display-name reference and falls back to
// the legacy plain-text value.
func (r *Resolver) readName(key Key) string {
	if r.indirect != nil {
		if ref, err := key.StringValue(displayNameValue); err == nil {
			if name, err := r.indirect(ref); err == nil && name != "" {
				return name
			}
		}
	}

	if text, err := key.StringValue(layoutTextValue); err == nil && text != "" {
		return text
	}
	return UnknownLayoutName
}

// substitute redirects handle through HKCU's substitution table. Match kinds
// are tried in fixed priority: exact, masked, then language-only; within a
// kind the first matching entry wins. No match leaves the handle unchanged.
func (r *Resolver) substitute(handle Handle) Handle {
	key, err := r.registry.OpenKey(CurrentUser, substitutesPath)
	if err != nil {
		return handle
	}
	defer key.Close()

	names, err := key.ValueNames()
	if err != nil {
		return handle
	}

	language := handle.Language()
	rules := []func(Handle) bool{
		func(k Handle) bool { return k == handle },
		func(k Handle) bool { return uint32(k)&substitutionMask == uint32(handle)&substitutionMask },
		func(k Handle) bool { return k.Language() == language },
	}

	for _, rule := range rules {
		if sub, ok := firstSubstitution(key, names, rule); ok {
			return sub
		}
	}
	return handle
}

func firstSubstitution(key Key, names []string, matches func(Handle) bool) (Handle, bool) {
	for _, name := range names {
		v, err := strconv.ParseUint(name, 16, 32)
		if err != nil || !matches(Handle(v)) {
			continue
		}

		data, err := key.StringValue(name)
		if err != nil {
			continue
		}
		sub, err := strconv.ParseUint(data, 16, 32)
		if err != nil {
			continue
		}
		return Handle(sub), true
	}
	return 0, false
}

// findExact scans the installed layout keys for one whose KLID equals the
// full handle. A hit is final even when the entry stores no name.
func (r *Resolver) findExact(handle Handle) (string, bool) {
	klids, ok := r.installedKLIDs()
	if !ok {
		return "", false
	}

	for _, klid := range klids {
		v, err := strconv.ParseUint(klid, 16, 32)
		if err != nil {
			continue
		}
		if Handle(v) == handle {
			return r.nameForKLID(klid), true
		}
	}
	return "", false
}

// findByLayoutID scans the installed layout keys for one sharing the
// handle's language whose stored layout id equals the handle's device.
func (r *Resolver) findByLayoutID(handle Handle) (string, bool) {
	klids, ok := r.installedKLIDs()
	if !ok {
		return "", false
	}

	for _, klid := range klids {
		v, err := strconv.ParseUint(klid, 16, 32)
		if err != nil {
			continue
		}
		if Handle(v).Language() != handle.Language() {
			continue
		}

		id, ok := r.layoutID(klid)
		if !ok || id != handle.Device() {
			continue
		}
		return r.nameForKLID(klid), true
	}
	return "", false
}

func (r *Resolver) installedKLIDs() ([]string, bool) {
	key, err := r.registry.OpenKey(LocalMachine, layoutsPath)
	if err != nil {
		return nil, false
	}
	defer key.Close()

	names, err := key.SubKeyNames()
	if err != nil {
		return nil, false
	}
	return names, true
}

func (r *Resolver) layoutID(klid string) (uint16, bool) {
	key, err := r.registry.OpenKey(LocalMachine, layoutsPath+`\`+klid)
	if err != nil {
		return 0, false
	}
	defer key.Close()

	raw, err := key.StringValue(layoutIDValue)
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(id), true
}
