// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package similarity

import "math"

// Assign solves the maximize-weight rectangular assignment problem.
//
// # Description
//
// Given a scores matrix (rows x cols, not necessarily square), Assign picks
// at most one column per row and one row per column so that the sum of the
// selected scores is maximal. This is the classic linear sum assignment
// problem, solved with the Jonker-Volgenant shortest augmenting path scheme
// on the negated matrix (the primitive minimizes cost). Runtime is O(n^3)
// in the larger dimension.
//
// Inputs:
//
//	scores - Rectangular score matrix; scores[i][j] is the weight of pairing
//	         row i with column j. Rows may be empty.
//
// Outputs:
//
//	[]int - One entry per row: the assigned column index, or -1 when the row
//	        is left unassigned (only possible when rows > cols).
//
// Exactly min(rows, cols) rows receive an assignment.
func Assign(scores [][]float64) []int {
	rows := len(scores)
	if rows == 0 {
		return nil
	}
	cols := len(scores[0])
	result := make([]int, rows)
	for i := range result {
		result[i] = -1
	}
	if cols == 0 {
		return result
	}

	// The augmenting path solver requires rows <= cols; transpose when the
	// matrix is taller than wide and invert the mapping afterwards.
	if rows <= cols {
		cost := negate(scores, rows, cols)
		rowToCol := solveRectangular(cost, rows, cols)
		copy(result, rowToCol)
		return result
	}

	transposed := make([][]float64, cols)
	for j := 0; j < cols; j++ {
		transposed[j] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			transposed[j][i] = scores[i][j]
		}
	}
	cost := negate(transposed, cols, rows)
	colToRow := solveRectangular(cost, cols, rows)
	for j, i := range colToRow {
		if i >= 0 {
			result[i] = j
		}
	}
	return result
}

// negate returns -m so that cost minimization maximizes the score sum.
func negate(m [][]float64, rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			out[i][j] = -m[i][j]
		}
	}
	return out
}

// solveRectangular runs the shortest-augmenting-path assignment on a cost
// matrix with n rows and m columns, n <= m. Every row ends up assigned.
// Internally 1-indexed; index 0 is the virtual unmatched column.
func solveRectangular(cost [][]float64, n, m int) []int {
	inf := math.Inf(1)
	u := make([]float64, n+1) // row potentials
	v := make([]float64, m+1) // column potentials
	p := make([]int, m+1)     // p[j]: row currently assigned to column j
	way := make([]int, m+1)   // way[j]: previous column on the augmenting path

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = inf
		}

		// Dijkstra-style search for the cheapest augmenting path from row i.
		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Unroll the path, flipping assignments along it.
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowToCol := make([]int, n)
	for j := 1; j <= m; j++ {
		if p[j] > 0 {
			rowToCol[p[j]-1] = j - 1
		}
	}
	return rowToCol
}
