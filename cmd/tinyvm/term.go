// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// enterRawTerm switches stdin to non-canonical mode without echo so the
// machine sees keystrokes as they happen. The returned restore func is
// idempotent and safe to call from multiple paths.
func enterRawTerm() (func(), error) {
	fd := os.Stdin.Fd()

	if !term.IsTerminal(int(fd)) {
		return func() {}, nil
	}

	var saved unix.Termios

	if err := termios.Tcgetattr(fd, &saved); err != nil {
		return nil, err
	}

	state := saved
	state.Lflag &^= unix.ICANON | unix.ECHO
	state.Cc[unix.VMIN] = 1
	state.Cc[unix.VTIME] = 0

	if err := termios.Tcsetattr(fd, termios.TCSANOW, &state); err != nil {
		return nil, err
	}

	return func() {
		termios.Tcsetattr(fd, termios.TCSANOW, &saved)
	}, nil
}

const (
	// KBSR polls must not stall the run loop, so checking for a pending
	// key uses a near-zero timeout.
	pollTimeout = 10 * time.Millisecond

	// Blocking reads wait in short slices so cancellation is noticed
	// even when no key ever arrives.
	readSlice = 100 * time.Millisecond
)

// consoleKeyboard adapts stdin to the machine's keyboard device. Reads
// respect the supplied context so an interrupt can stop a program stuck
// waiting on GETC.
type consoleKeyboard struct {
	ctx  context.Context
	file *os.File
}

func newConsoleKeyboard(ctx context.Context, file *os.File) *consoleKeyboard {
	return &consoleKeyboard{ctx: ctx, file: file}
}

func (kb *consoleKeyboard) Poll() bool {
	return kb.selectRead(pollTimeout)
}

func (kb *consoleKeyboard) ReadKey() (byte, error) {
	var buf [1]byte

	for {
		if err := kb.ctx.Err(); err != nil {
			return 0, err
		}

		if !kb.selectRead(readSlice) {
			continue
		}

		n, err := kb.file.Read(buf[:])

		if err != nil {
			return 0, err
		}

		if n == 0 {
			return 0, io.EOF
		}

		return buf[0], nil
	}
}

// selectRead reports whether the file has bytes ready within the given
// timeout.
func (kb *consoleKeyboard) selectRead(timeout time.Duration) bool {
	fd := int(kb.file.Fd())

	var readfds unix.FdSet
	readfds.Set(fd)

	tv := unix.NsecToTimeval(timeout.Nanoseconds())

	n, err := unix.Select(fd+1, &readfds, nil, nil, &tv)

	if err != nil {
		return false
	}

	return n > 0
}
