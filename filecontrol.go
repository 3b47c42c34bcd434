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
	"io"
	"os"
	"path/filepath"
)

// Controls lifetime of both input and output wads - ensures they are properly
// closed by the end of program, regardless of success and failure, and that
// a temporary file, if such was created because output file was not specified
// and we were to replace the input, either replaces that input file (on success)
// or is deleted (on failure)
type FileControl struct {
	success        bool
	tmp            bool
	fin            *os.File
	fout           *os.File
	inputFileName  string
	outputFileName string
}

func (fc *FileControl) UsingTmp() bool {
	return fc.tmp
}

func (fc *FileControl) OpenInputFile(inputFileName string) (*os.File, error) {
	fc.inputFileName = inputFileName
	var err error
	fc.fin, err = os.Open(inputFileName)
	if err != nil {
		fc.fin = nil
	}
	return fc.fin, err
}

func (fc *FileControl) OpenOutputFile(outputFileName string) (*os.File, string, error) {
	fc.tmp = outputFileName == ""
	var err error
	if fc.tmp {
		// Need a temporary file
		fc.fout, err = os.CreateTemp(filepath.Dir(fc.inputFileName), "tmp")
		if err == nil {
			outputFileName = fc.fout.Name()
		}
	} else {
		fc.fout, err = os.OpenFile(outputFileName, os.O_CREATE|os.O_RDWR|os.O_TRUNC,
			os.ModeExclusive|os.ModePerm)
	}
	if err != nil {
		fc.fout = nil
	}
	fc.outputFileName = outputFileName
	return fc.fout, outputFileName, err
}

// Success closes both files and, if a temporary file was used, makes it
// replace the input. Returns false if any of that failed
func (fc *FileControl) Success() bool {
	if fc.fin == nil || fc.fout == nil {
		Log.Panic("Sanity check failed: descriptor invalid.\n")
	}
	errFin := fc.fin.Close()
	errFout := fc.fout.Close()
	if errFin != nil || errFout != nil {
		if errFin != nil {
			Log.Error("Closing input file (after wad was almost ready) returned error: %s.\n",
				errFin.Error())
		}
		if errFout != nil {
			Log.Error("Closing output file (after wad was almost ready) returned error: %s.\n",
				errFout.Error())
		}
		return false
	}
	success2 := true
	if fc.tmp {
		success2 = fc.tempFileReplacesInput()
	}
	fc.success = true // nothing to clean up on program exit anyway (original file descriptors closed)
	return success2
}

func (fc *FileControl) tempFileReplacesInput() bool {
	success := true
	// now former output - temp file - is where we read from,
	// where as former input is the destination file we will overwrite
	fin, errFin := os.Open(fc.outputFileName)
	if errFin != nil {
		Log.Error("Couldn't reopen the temporarily file to read from it: %s.\n",
			errFin.Error())
		return false
	}
	fout, errFout := os.OpenFile(fc.inputFileName, os.O_CREATE|os.O_RDWR|os.O_TRUNC,
		os.ModeExclusive|os.ModePerm)
	if errFout != nil {
		success = false
		Log.Error("Couldn't reopen the input file to overwrite it: %s.\n",
			errFout.Error())
	} else {
		_, err := io.Copy(fout, fin)
		if err != nil {
			success = false
			Log.Error("Error when overwriting the original file: %s.\n",
				err.Error())
		}
		fout.Close()
	}
	fin.Close()
	// Now delete the temporary file
	err := os.Remove(fc.outputFileName)
	if err != nil {
		success = false
		Log.Error("Couldn't delete temporary file after overwriting the original one: %s.\n",
			err.Error())
	}
	return success
}

// Ensures we close all files when program exits. Temporary file is getting
// deleted at this moment
func (fc *FileControl) Shutdown() {
	if fc.success {
		return
	}

	var errFin error
	if fc.fin != nil {
		errFin = fc.fin.Close()
	}

	var errFout error
	if fc.fout != nil {
		errFout = fc.fout.Close()
	}

	if errFin != nil {
		Log.Error("Couldn't close input file '%s': %s\n", fc.inputFileName, errFin.Error())
	}

	if errFout != nil {
		Log.Error("Couldn't close output file '%s': %s\n", fc.outputFileName, errFout.Error())
	}

	if fc.tmp && fc.fout != nil { // Aborting unsuccessful operation when a temp file has been created
		if errFout != nil {
			Log.Error("Couldn't delete temporary file '%s' because failed to close it already.\n",
				fc.outputFileName)
			return
		}
		err := os.Remove(fc.outputFileName)
		if err != nil {
			Log.Error("Got error when trying to delete a temporary file '%s': %s\n", fc.outputFileName, err.Error())
		}
	}
}
