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
	"strconv"
)

const ( // NumericOrState.whichType values
	ARG_ENABLED = iota
	ARG_DISABLED
	ARG_IS_NUMBER
)

type NumericOrState struct {
	whichType int // see consts above
	value     int
}

// Inspired by from zokumbsp's parser
func (c *ProgramConfig) FromCommandLine(args []string) bool {
	files := make([]string, 0)
	// modifier that expects the next argument to be its value
	var pending byte
	outputModifierUsed := false
	filterUsed := false
	for _, arg := range args {
		if len(arg) < 1 {
			continue
		}

		if pending != 0 {
			switch pending {
			case 'o':
				{
					c.OutputFileName = arg
				}
			case 'm', 'x':
				{
					c.FilterLevel = parseLevelList(arg)
					c.FilterProhibitsLevels = pending == 'x'
				}
			}
			pending = 0
			continue
		}

		if arg[0] != '-' {
			files = append(files, arg)
			if len(files) > 1 {
				// No logic for concatenating multiple wads into one exists
				Log.Error("This program doesn't support specifying more than one input file - aborting.\n")
				return false
			}
			c.InputFileName = files[0]
			continue
		}

		if len(arg) < 2 {
			continue
		}
		switch arg[1] {
		case 'b':
			{
				enabled, rest := isEnabled([]byte(arg)[2:])
				c.RebuildBlockmap = enabled
				if len(rest) > 0 {
					Log.Error("Blockmap has no parameters, characters immediately following -b will be ignored.\n")
				}
			}
		case 'n':
			{
				enabled, rest := isEnabled([]byte(arg)[2:])
				c.RebuildNodes = enabled
				if c.RebuildNodes {
					c.parseNodesParams(rest)
				} else if len(rest) > 0 {
					Log.Error("Not rebuilding nodes, but had more non-whitespace characters immediately following -n-. They will be ignored.\n")
				}
			}
		case 'r':
			{
				enabled, rest := isEnabled([]byte(arg)[2:])
				if !enabled {
					c.Reject = REJECT_DONTTOUCH
				} else {
					c.Reject = REJECT_KEEP
					c.parseRejectParams(rest)
				}
			}
		case 'v':
			{
				// "count" type: -v, -vv, -vvv, etc.
				vs := 0
				barg := []byte(arg)[1:]
				for i := 0; i < len(barg); i++ {
					if barg[i] == 'v' {
						vs++
					} else {
						break
					}
				}
				c.VerbosityLevel += vs
			}
		case 'o':
			{
				if len(arg) != 2 {
					Log.Error("Unrecognized modified '%s' (expected '-o <file>', space between '-o' and file name) - aborting.\n",
						arg)
					return false
				}
				if outputModifierUsed {
					Log.Error("Can't specify output file twice, only one output file is supported - aborting.\n")
					return false
				}
				pending = 'o'
				outputModifierUsed = true
			}
		case 'm', 'x':
			{
				if len(arg) != 2 {
					Log.Error("Unrecognized modified '%s' (expected '%s <map list>') - aborting.\n",
						arg, arg[:2])
					return false
				}
				if filterUsed {
					Log.Error("Only one of -m and -x can be used, and only once - aborting.\n")
					return false
				}
				pending = arg[1]
				filterUsed = true
			}
		case '-':
			{
				if arg == "--help" {
					c.ShowHelp = true
				} else {
					Log.Error("Unrecognised argument '%s' - aborting.\n", arg)
					return false
				}
			}
		default:
			{
				Log.Error("Unrecognised argument '%s' - aborting.\n", arg)
				return false
			}
		}
	}
	if pending != 0 {
		Log.Error("Modifier '-%c' was present without a value following it - aborting.\n",
			pending)
		return false
	}
	return true
}

func (c *ProgramConfig) parseNodesParams(p []byte) {
	for len(p) > 0 {
		switch p[0] {
		case 'f':
			{
				var num NumericOrState
				num, p = readNumeric("f", p[1:])
				if num.whichType == ARG_IS_NUMBER {
					if num.value < 1 {
						Log.Error("Seg split cost must be positive, keeping %d.\n",
							c.PickNodeFactor)
					} else {
						c.PickNodeFactor = num.value
					}
				} else {
					Log.Error("Expected -nf=<number>, got something else. Ignoring.\n")
				}
			}
		default:
			{
				Log.Error("Unknown nodes parameter '%c', the rest of '-n' parameters is ignored.\n",
					p[0])
				p = p[:0]
			}
		}
	}
}

func (c *ProgramConfig) parseRejectParams(p []byte) {
	for len(p) > 0 {
		switch p[0] {
		case 'z':
			{
				c.Reject = REJECT_ZEROFILLED
				p = p[1:]
			}
		default:
			{
				Log.Error("Unknown reject parameter '%c', the rest of '-r' parameters is ignored.\n",
					p[0])
				p = p[:0]
			}
		}
	}
}

// Level names are stored upper case, so that they compare directly with
// lump names
func parseLevelList(arg string) [][]byte {
	res := make([][]byte, 0)
	for _, name := range bytes.Split([]byte(arg), []byte(",")) {
		name = bytes.ToUpper(bytes.TrimSpace(name))
		if len(name) == 0 {
			continue
		}
		if !IsALevel(name) {
			Log.Error("'%s' doesn't look like a level name, but will be kept in the list anyway.\n",
				string(name))
		}
		res = append(res, name)
	}
	return res
}

func isEnabled(arg []byte) (bool, []byte) {
	if len(arg) == 0 {
		return true, arg
	}
	if arg[0] == '+' {
		return true, arg[1:]
	} else if arg[0] == '-' {
		return false, arg[1:]
	} else {
		return true, arg
	}
}

// a+, a-, or a=<numeric_value_without_sign>
func readNumeric(prefix string, arg []byte) (NumericOrState, []byte) {
	if len(arg) == 0 {
		return NumericOrState{whichType: ARG_ENABLED}, arg
	}
	if arg[0] == '+' {
		return NumericOrState{whichType: ARG_ENABLED}, arg[1:]
	} else if arg[0] == '-' {
		return NumericOrState{whichType: ARG_DISABLED}, arg[1:]
	} else if arg[0] == '=' {
		// !!! doesn't support negative values, and values with explicit "+"
		// sign either
		t, v, rest := readNumericOnly(arg[1:])
		if t {
			return NumericOrState{
				whichType: ARG_IS_NUMBER,
				value:     v,
			}, rest
		} else {
			Log.Error("Couldn't properly parse '%s=%s'. Some parameters are going to be ignored as the result.\n", prefix, string(arg))
			return NumericOrState{
				whichType: ARG_ENABLED,
			}, arg[:0] // ignore the rest of parameters
		}
	} else {
		return NumericOrState{whichType: ARG_ENABLED}, arg
	}
}

func readNumericOnly(arg []byte) (bool, int, []byte) {
	if len(arg) == 0 {
		return false, 0, arg
	}
	l := 0
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		if '0' <= c && c <= '9' {
			l++
		} else {
			break
		}
	}
	if l > 0 {
		v, err := strconv.Atoi(string(arg[:l]))
		if err != nil {
			Log.Error("value '%s' was too big to interpret as int.\n",
				string(arg[:l]))
			return false, 0, arg[l:]
		}
		return true, v, arg[l:]
	}
	return false, 0, arg
}
