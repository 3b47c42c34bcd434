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
	"os"
)

const VERSION = "0.1a"

/*
-b Rebuild BLOCKMAP.

-n Rebuild NODES (and VERTEXES, SEGS, SSECTORS, LINEDEFS that depend on them).
	f= Seg split cost
		8 - default

-r REJECT handling.
	(default) keep existing REJECT, insert zero-filled one if missing
	z Always insert zero-filled REJECT resource
	- Don't touch REJECT at all, even if it is missing

-m Process only the maps listed after it: -m MAP01,MAP03
-x Process every map except the ones listed after it: -x E1M9

-v Add verbosity to text output. Use multiple times for increased verbosity.

-o <file> Write to a new file instead of replacing the input.
*/

const (
	REJECT_ZEROFILLED = iota // always write zero-filled reject
	REJECT_KEEP              // keep present one, create zero-filled if absent
	REJECT_DONTTOUCH
)

type ProgramConfig struct {
	InputFileName         string
	OutputFileName        string
	VerbosityLevel        int
	RebuildNodes          bool
	RebuildBlockmap       bool
	Reject                int
	PickNodeFactor        int      // cost of a seg split
	FilterLevel           [][]byte // upper case names of levels user asked for
	FilterProhibitsLevels bool     // whether FilterLevel lists levels to skip instead
	ShowHelp              bool
}

var config *ProgramConfig = DefaultConfig() // global variable that is accessed from everywhere

func DefaultConfig() *ProgramConfig {
	return &ProgramConfig{
		InputFileName:         "",
		OutputFileName:        "",
		VerbosityLevel:        0,
		RebuildNodes:          true,
		RebuildBlockmap:       true,
		Reject:                REJECT_KEEP,
		PickNodeFactor:        PICKNODE_FACTOR,
		FilterLevel:           nil,
		FilterProhibitsLevels: false,
		ShowHelp:              false,
	}
}

// Configure parses command line into global config. Exits on error or when
// there is nothing to do but to print help
func Configure() {
	Log.Printf("CarveBSP ver %s\n", VERSION)
	Log.Printf("Copyright (c)   2022 VigilantDoomer\n")
	Log.Printf("Distributed under the terms of GNU General Public License v2.\n")
	Log.Printf("\n")
	if !(config.FromCommandLine(os.Args[1:])) {
		Log.Printf("\n")
		os.Exit(1)
	}

	// If input file name was not passed, print help
	if config.InputFileName == "" || config.ShowHelp {
		PrintHelp()
		os.Exit(0)
	}
}

func PrintHelp() {
	Log.Printf("Usage: carvebsp {-options} filename.wad {-o output.wad}\n")
	Log.Printf("\n")
	Log.Printf("-x+ turn on option -x- turn off option\n")
	Log.Printf("\n")
	Log.Printf("-b Rebuild BLOCKMAP.\n")
	Log.Printf("\n")
	Log.Printf("-n Rebuild NODES.\n")
	Log.Printf("	f= Seg split cost\n")
	Log.Printf("		%d - default\n", PICKNODE_FACTOR)
	Log.Printf("\n")
	Log.Printf("-r REJECT resource.\n")
	Log.Printf("	(default) keep existing, insert zero-filled one if missing\n")
	Log.Printf("	z Insert zero-filled REJECT resource\n")
	Log.Printf("	- Don't touch REJECT\n")
	Log.Printf("\n")
	Log.Printf("-m MAP01,MAP02 Only process listed maps\n")
	Log.Printf("-x E1M9 Process all maps except listed\n")
	Log.Printf("\n")
	Log.Printf("-v Add verbosity to text output. Use multiple times for increased verbosity.\n")
	Log.Printf("\n")
	Log.Printf("-o <file> Output file. Without it, input file is replaced.\n")
}
