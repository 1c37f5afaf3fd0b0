//go:build windows

// Package winlang talks to the Windows input-language services: installed
// keyboard layouts, the active layout of the calling thread, and the input
// state of the foreground window.
package winlang

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"codeberg.org/tamasv/winboard/pkg/winlayouts"
)

const (
	wmInputLangChangeRequest = 0x0050
	spiGetDefaultInputLang   = 0x0059

	klfActivate = 0x00000001
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	shlwapi  = windows.NewLazySystemDLL("shlwapi.dll")

	procGetKeyboardLayoutList    = user32.NewProc("GetKeyboardLayoutList")
	procGetKeyboardLayout        = user32.NewProc("GetKeyboardLayout")
	procActivateKeyboardLayout   = user32.NewProc("ActivateKeyboardLayout")
	procLoadKeyboardLayoutW      = user32.NewProc("LoadKeyboardLayoutW")
	procSystemParametersInfoW    = user32.NewProc("SystemParametersInfoW")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procPostMessageW             = user32.NewProc("PostMessageW")
	procLCIDToLocaleName         = kernel32.NewProc("LCIDToLocaleName")
	procSHLoadIndirectString     = shlwapi.NewProc("SHLoadIndirectString")
)

var (
	ErrNoSuchLayout       = errors.New("no such keyboard layout")
	ErrNoForegroundWindow = errors.New("no foreground window")
)

type Client struct{}

func NewClient() *Client {
	return &Client{}
}

// Layouts returns the installed keyboard layouts in OS order.
func (c *Client) Layouts() ([]winlayouts.Handle, error) {
	count, _, _ := procGetKeyboardLayoutList.Call(0, 0)
	if count == 0 {
		return nil, nil
	}

	raw := make([]uintptr, count)
	n, _, err := procGetKeyboardLayoutList.Call(count, uintptr(unsafe.Pointer(&raw[0])))
	if n == 0 {
		return nil, fmt.Errorf("list keyboard layouts: %w", err)
	}

	layouts := make([]winlayouts.Handle, 0, n)
	for _, hkl := range raw[:n] {
		layouts = append(layouts, winlayouts.Handle(uint32(hkl)))
	}
	return layouts, nil
}

// ActiveLayout returns the active layout of the calling thread.
func (c *Client) ActiveLayout() (winlayouts.Handle, error) {
	hkl, _, _ := procGetKeyboardLayout.Call(0)
	return winlayouts.Handle(uint32(hkl)), nil
}

// DefaultLayout returns the system default input language.
func (c *Client) DefaultLayout() (winlayouts.Handle, error) {
	var hkl uintptr
	ok, _, err := procSystemParametersInfoW.Call(spiGetDefaultInputLang, 0, uintptr(unsafe.Pointer(&hkl)), 0)
	if ok == 0 {
		return 0, fmt.Errorf("query default input language: %w", err)
	}
	return winlayouts.Handle(uint32(hkl)), nil
}

// Activate makes layout the active layout of the calling thread, loading it
// by KLID if it is not already installed. A handle the OS cannot load is
// rejected with ErrNoSuchLayout.
func (c *Client) Activate(layout winlayouts.Handle) error {
	prev, _, _ := procActivateKeyboardLayout.Call(uintptr(uint32(layout)), 0)
	if prev != 0 {
		return nil
	}

	klid, err := windows.UTF16PtrFromString(layout.KLID())
	if err != nil {
		return fmt.Errorf("encode klid: %w", err)
	}

	hkl, _, _ := procLoadKeyboardLayoutW.Call(uintptr(unsafe.Pointer(klid)), klfActivate)
	if hkl == 0 {
		return fmt.Errorf("activate layout %s: %w", layout, ErrNoSuchLayout)
	}
	return nil
}

// SwitchToLayout asks the foreground window to change its input language.
func (c *Client) SwitchToLayout(layout winlayouts.Handle) error {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return ErrNoForegroundWindow
	}

	ok, _, err := procPostMessageW.Call(hwnd, wmInputLangChangeRequest, 0, uintptr(uint32(layout)))
	if ok == 0 {
		return fmt.Errorf("post input language change: %w", err)
	}
	return nil
}
