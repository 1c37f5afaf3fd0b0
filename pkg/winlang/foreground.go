//go:build windows

package winlang

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"

	"codeberg.org/tamasv/winboard/pkg/winlayouts"
)

// ForegroundApp returns the lowercased executable name of the process
// owning the foreground window.
func (c *Client) ForegroundApp() (string, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return "", ErrNoForegroundWindow
	}

	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return "", errors.New("no foreground process")
	}

	proc, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", fmt.Errorf("open process %d: %w", pid, err)
	}
	defer windows.CloseHandle(proc)

	buf := make([]uint16, 4096)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(proc, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("query image name: %w", err)
	}

	full := windows.UTF16ToString(buf[:size])
	return strings.ToLower(filepath.Base(full)), nil
}

// ForegroundLayout returns the active layout of the foreground window's
// thread.
func (c *Client) ForegroundLayout() (winlayouts.Handle, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return 0, ErrNoForegroundWindow
	}

	thread, _, _ := procGetWindowThreadProcessId.Call(hwnd, 0)
	hkl, _, _ := procGetKeyboardLayout.Call(thread)
	return winlayouts.Handle(uint32(hkl)), nil
}
