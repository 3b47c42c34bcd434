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

// Central log (stdout/stderr) of the program
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type MyLogger struct {
	syslog *log.Logger
	errlog *log.Logger
	// Mutex is used to order writes to stdout and stderr, as well as Sync call
	mu sync.Mutex
}

// Log of a single level. Levels in a batch are processed one after another,
// but their output is buffered until the level is done and then merged into
// the main log as a whole. Errors are buffered separately so that they still
// end up on stderr
type MiniLogger struct {
	buf    bytes.Buffer
	errbuf bytes.Buffer
}

func CreateLogger(stdout, stderr io.Writer) *MyLogger {
	return &MyLogger{
		syslog: log.New(stdout, "", 0),
		errlog: log.New(stderr, "", 0),
	}
}

var Log = CreateLogger(os.Stdout, os.Stderr)

// Your generic printf to let user see things
func (log *MyLogger) Printf(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.syslog.Printf(s, a...)
}

// As generic as printf, but writes to stderr instead of stdout
// Does NOT interrupt execution of the program
func (log *MyLogger) Error(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.errlog.Printf(s, a...)
}

// For advanced users or users that are curious, or programmers, there is
// stuff they might want to see but only when they can really bother to spend
// time reading it
func (log *MyLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
	if verbosityLevel <= config.VerbosityLevel {
		log.mu.Lock()
		defer log.mu.Unlock()
		log.syslog.Printf(s, a...)
	}
}

// Panicking is not a good thing, but at least we can now use formatted printing
// for it
func (log *MyLogger) Panic(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	panic(fmt.Sprintf(s, a...))
}

// Sync is used to wait until all messages are written to the output
func (log *MyLogger) Sync() {
	log.mu.Lock()
	log.mu.Unlock()
}

func (log *MyLogger) Merge(mlog *MiniLogger, preface string) {
	if mlog == nil {
		return
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(preface) > 0 {
		log.syslog.Print(preface)
	}
	content := mlog.buf.String()
	if len(content) > 0 {
		log.syslog.Print(content)
	}
	errs := mlog.errbuf.String()
	if len(errs) > 0 {
		log.errlog.Print(errs)
	}
}

func CreateMiniLogger() *MiniLogger {
	return new(MiniLogger)
}

func (mlog *MiniLogger) Printf(s string, a ...interface{}) {
	if mlog == nil {
		Log.Printf(s, a...)
		return
	}
	mlog.buf.WriteString(fmt.Sprintf(s, a...))
}

func (mlog *MiniLogger) Error(s string, a ...interface{}) {
	if mlog == nil {
		Log.Error(s, a...)
		return
	}
	mlog.errbuf.WriteString(fmt.Sprintf(s, a...))
}

func (mlog *MiniLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
	if mlog == nil {
		Log.Verbose(verbosityLevel, s, a...)
		return
	}
	if verbosityLevel <= config.VerbosityLevel {
		mlog.buf.WriteString(fmt.Sprintf(s, a...))
	}
}

// Errors returns what was logged as errors so far
func (mlog *MiniLogger) Errors() string {
	if mlog == nil {
		return ""
	}
	return mlog.errbuf.String()
}

func (mlog *MiniLogger) String() string {
	if mlog == nil {
		return ""
	}
	return mlog.buf.String()
}
