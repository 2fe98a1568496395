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
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"

	"github.com/Feltenball/TinyVM/pkg/encoding"
	"github.com/Feltenball/TinyVM/pkg/machine"
)

var helpvar bool
var tracevar bool
var dumpvar bool
var compatvar bool
var entryvar string

const usage = "tinyvm [options] image-file ..."

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&tracevar, "trace", false, "Logs every executed instruction")
	flag.BoolVar(&dumpvar, "dump", false, "Dumps the register file after the run")
	flag.BoolVar(&compatvar, "compat", false, "Treats the reserved opcodes as no-ops instead of faults")
	flag.StringVar(&entryvar, "entry", "", "Overrides the initial program counter (x3000, 0x3000 or #12288)")
	flag.Parse()
}

// Exit statuses follow the original runner: 2 for a usage problem, 1 when an
// image fails to load or the machine faults, 0 after a clean HALT, 130 when
// interrupted from outside.
func tinyvm() int {
	if helpvar {
		fmt.Println(usage)
		return 0
	}

	if tracevar {
		logrus.SetLevel(logrus.DebugLevel)
	}

	args := flag.Args()

	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	var mc machine.Machine
	mc.Reset()
	mc.AllowReserved = compatvar

	for _, path := range args {
		if err := mc.LoadImageFile(path); err != nil {
			logrus.WithError(err).Error("failed to load image")
			return 1
		}

		logrus.WithField("image", path).Debug("image loaded")
	}

	if entryvar != "" {
		entry, err := parseEntry(entryvar)

		if err != nil {
			logrus.WithError(err).Errorf("bad -entry value %q", entryvar)
			return 2
		}

		mc.State.PC = entry
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	restore, err := enterRawTerm()

	if err != nil {
		logrus.WithError(err).Error("failed to configure terminal")
		return 1
	}

	defer restore()

	mc.Devices = &machine.DeviceHandler{
		Keyboard: newConsoleKeyboard(ctx, os.Stdin),
		Display:  bufio.NewWriter(os.Stdout),
	}

	err = mc.Run(ctx)

	switch {
	case err == nil:

	case errors.Is(err, context.Canceled):
		restore()
		fmt.Println()
		return 130

	default:
		restore()
		fmt.Println()
		logrus.WithError(err).Error("machine fault")
		return 1
	}

	if dumpvar {
		restore()
		pp.Println(mc.Snapshot())
	}

	return 0
}

// parseEntry accepts the architecture's usual address spellings: hex as
// x3000 or 0x3000, decimal as #12288 or 12288.
func parseEntry(s string) (uint16, error) {
	if value, err := encoding.DecodeHex(s); err == nil {
		return value, nil
	}

	value, err := encoding.DecodeInt(s)

	if err != nil {
		return 0, err
	}

	return uint16(value), nil
}

func main() {
	os.Exit(tinyvm())
}
