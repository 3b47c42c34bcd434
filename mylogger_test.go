// Copyright (C) 2022, VigilantDoomer
//
// This file is part of CarveBSP program.
//
// CarveBSP is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// CarveBSP is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with CarveBSP.  If not, see <https://www.gnu.org/licenses/>.
package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestMiniLoggerMerge(t *testing.T) {
	withConfig(t, DefaultConfig())
	var stdout, stderr bytes.Buffer
	lg := CreateLogger(&stdout, &stderr)

	mlog := CreateMiniLogger()
	mlog.Printf("Segs: %d\n", 12)
	mlog.Verbose(1, "hidden at verbosity 0\n")
	mlog.Error("Error: %s\n", "bad seg")
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Fatalf("mini logger must not write before merge\n")
	}
	if mlog.Errors() != "Error: bad seg\n" {
		t.Errorf("unexpected errors buffer '%s'\n", mlog.Errors())
	}

	lg.Merge(mlog, "Processing level MAP01:\n")
	lg.Sync()
	if stdout.String() != "Processing level MAP01:\nSegs: 12\n" {
		t.Errorf("unexpected stdout '%s'\n", stdout.String())
	}
	if stderr.String() != "Error: bad seg\n" {
		t.Errorf("unexpected stderr '%s'\n", stderr.String())
	}
}

func TestMiniLoggerVerbosity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VerbosityLevel = 2
	withConfig(t, cfg)
	mlog := CreateMiniLogger()
	mlog.Verbose(2, "two\n")
	mlog.Verbose(3, "three\n")
	if mlog.String() != "two\n" {
		t.Errorf("unexpected output '%s'\n", mlog.String())
	}
}

func TestNilMiniLoggerForwards(t *testing.T) {
	withConfig(t, DefaultConfig())
	stdout, stderr := withQuietLog(t)
	var mlog *MiniLogger
	mlog.Printf("to stdout\n")
	mlog.Error("to stderr\n")
	if !strings.Contains(stdout.String(), "to stdout") {
		t.Errorf("Printf was not forwarded\n")
	}
	if !strings.Contains(stderr.String(), "to stderr") {
		t.Errorf("Error was not forwarded\n")
	}
	if mlog.Errors() != "" || mlog.String() != "" {
		t.Errorf("nil logger has no buffers\n")
	}
}
