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

// -- This file is where the program entry is.
// CarveBSP compiles DOOM format maps: it builds NODES (with SEGS, SSECTORS
// and the VERTEXES they reference) by recursively cutting the map with
// partition lines picked from segs, and BLOCKMAP by bucketing linedefs into
// 128x128 blocks.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

func main() {
	// before config can be legitimately accessed, must call Configure()
	Configure()
	code := run()
	Log.Sync()
	os.Exit(code)
}

// run returns the exit code, so that deferred cleanup happens before exit
func run() int {
	timeStart := time.Now()

	config.InputFileName, _ = filepath.Abs(config.InputFileName)
	if config.OutputFileName != "" {
		config.OutputFileName, _ = filepath.Abs(config.OutputFileName)
		// Output file colliding with input file would produce corrupt file,
		// as the input is still open for reading while output is written
		f1, err1 := os.Stat(config.InputFileName)
		f2, err2 := os.Stat(config.OutputFileName)
		if err1 == nil && err2 == nil {
			if os.SameFile(f1, f2) {
				Log.Error("You cannot specify output file that maps to the same input file (whether via same path and name, or hardlinks, or symlinks)\n")
				return 1
			}
		}
	}

	mainFileControl := FileControl{}
	defer mainFileControl.Shutdown()

	// Try open input wad
	f, err := mainFileControl.OpenInputFile(config.InputFileName)
	if err != nil {
		Log.Error("An error has occured while trying to read %s: %s\n",
			config.InputFileName, err)
		return 1
	}

	wad, err := ReadWad(f)
	if err != nil {
		if errors.Cause(err) == ErrNotAWad {
			Log.Error("The input file is NOT a wad.\n")
		} else {
			Log.Error("Couldn't read %s: %s\n", config.InputFileName, err)
		}
		return 1
	}
	if wad.MagicSig == IWAD_MAGIC_SIG {
		Log.Printf("The input file is an IWAD\n")
	} else {
		Log.Printf("The input file is a PWAD\n")
	}
	Log.Verbose(1, "The directory contains %d lumps, %d level markers\n",
		len(wad.Lumps), len(wad.LevelMarkers()))

	done, failed := ProcessLevels(wad)
	if done+failed == 0 {
		Log.Error("Unable to find any levels I can rebuild - terminating.\n")
		return 1
	}

	fout, outFileName, err := mainFileControl.OpenOutputFile(config.OutputFileName)
	if err != nil {
		Log.Error("Couldn't create file %s: %s\n", outFileName, err)
		return 1
	}
	if _, err := wad.WriteTo(fout); err != nil {
		Log.Error("Couldn't write %s: %s\n", outFileName, err)
		return 1
	}

	suc := mainFileControl.Success()
	if suc {
		trFileName := outFileName
		if mainFileControl.UsingTmp() {
			// we were using tmp file, which means our real output file is same
			// as input one. So make sure user sees that we written (overwritten)
			// the desired file instead of some temp file
			trFileName = config.InputFileName
		}
		Log.Printf("%s successfully written \n", trFileName)
	} else {
		Log.Printf("I/O error on flushing data / closing files. The data might not have been saved!\n")
	}
	Log.Printf("%d levels rebuilt, %d failed\n", done, failed)
	Log.Printf("Total time: %s\n", time.Since(timeStart))
	if !suc {
		return 1
	}
	return 0
}

// ProcessLevels rebuilds every level that passes the filter. A level that
// fails is reported and left untouched, the rest are still processed.
// Returns how many levels were rebuilt and how many failed
func ProcessLevels(wad *Wad) (int, int) {
	done := 0
	failed := 0
	for _, filter := range config.FilterLevel {
		if wad.FindLevel(string(filter)) < 0 {
			Log.Error("Level %s given with -m/-x is not in the wad.\n", string(filter))
		}
	}
	// Markers are visited by directory index, so that levels sharing a name
	// are each rebuilt. Index of the next marker is found only after current
	// level had its lumps inserted
	for marker := wad.NextLevel(-1); marker >= 0; marker = wad.NextLevel(marker) {
		name := wad.LevelName(marker)
		if !CanRebuildThisLevel([]byte(name)) {
			Log.Verbose(1, "will not rebuild level %s\n", name)
			continue
		}
		mlog := CreateMiniLogger()
		levelStart := time.Now()
		err := DoLevel(wad, marker, mlog)
		if err != nil {
			mlog.Error("Level %s was not rebuilt: %s\n", name, err.Error())
			failed++
		} else {
			mlog.Verbose(1, "Level %s took %s\n", name, time.Since(levelStart))
			done++
		}
		Log.Merge(mlog, fmt.Sprintf("Processing level %s:\n", name))
	}
	return done, failed
}
