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

// picknode
package main

import (
	"math"
)

// Cost of a partition line that leaves one of the sides empty. Such partition
// line is not a partition at all
const INVALID_COST = math.MaxInt

// Default weight of a seg split relative to one unit of imbalance between
// sides
const PICKNODE_FACTOR = 8

// PickNode_traditional tries every seg as partition line and returns the
// index of the first one with the lowest cost, or false as the second value
// when there is none (segs form a convex region)
func PickNode_traditional(w *NodesWork, segs []NodeSeg) (int, bool) {
	best := 0
	bestcost := INVALID_COST
	for i := range segs {
		cost := w.partitionCost(segs, i)
		if cost < bestcost {
			bestcost = cost
			best = i
		}
	}
	if bestcost == INVALID_COST {
		return 0, false
	}
	w.mlog.Verbose(4, "Picked seg %d (%s) as partition, cost %d.\n", best,
		segs[best].String(), bestcost)
	return best, true
}

// partitionCost evaluates segs[partIdx] as partition line: |front - back| +
// splitCost * splits. Segs that would be cut count on both sides, partition
// seg itself counts as front
func (w *NodesWork) partitionCost(segs []NodeSeg, partIdx int) int {
	part := SplitterFromSeg(&segs[partIdx], w.mlog)
	front := 0
	back := 0
	for i := range segs {
		if i == partIdx {
			front++
			continue
		}
		switch part.SegSide(&segs[i]) {
		case SIDE_LEFT:
			{
				front++
			}
		case SIDE_RIGHT:
			{
				back++
			}
		default:
			{
				front++
				back++
			}
		}
	}

	if front == 0 || back == 0 {
		return INVALID_COST
	}

	splits := front + back - len(segs)
	return Abs(front-back) + splits*w.splitCost
}
