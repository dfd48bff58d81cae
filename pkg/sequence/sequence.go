// Package sequence computes reveal orders for grid animations.
//
// A reveal order is a permutation of the cell indices of a cols×rows grid,
// describing the sequence in which cells become visible. Cell indices are
// row-major: index = y*cols + x. The order is computed once per animation
// and reused for every frame.
package sequence

import (
	"math/rand"

	"github.com/pdewald/asciimate/pkg/errors"
)

// Style selects the traversal pattern for a reveal order.
type Style string

// Supported animation styles.
const (
	// StyleSequential reveals cells row by row, left to right.
	StyleSequential Style = "sequential"

	// StyleMatrix reveals cells column by column, top to bottom.
	StyleMatrix Style = "matrix"

	// StyleAnts reveals cells along the trails of wandering agents.
	StyleAnts Style = "ants"

	// StyleRandom reveals cells in a uniformly random order.
	StyleRandom Style = "random"
)

// Styles lists all supported styles in display order.
var Styles = []Style{StyleSequential, StyleMatrix, StyleAnts, StyleRandom}

// DefaultStyle is the style used when the caller does not pick one.
const DefaultStyle = StyleAnts

// DefaultSeed is the seed used when the caller does not provide one.
// A fixed default keeps ant trails reproducible between runs.
const DefaultSeed = 42

// DefaultAnts is the number of wandering agents for StyleAnts.
const DefaultAnts = 10

// antStepFactor scales the step budget for the ant walk. Each of the
// cols*rows*antStepFactor steps moves every agent once.
const antStepFactor = 2

// ParseStyle converts a string into a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleSequential, StyleMatrix, StyleAnts, StyleRandom:
		return Style(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidStyle, "unknown animation style: %q (valid: sequential, matrix, ants, random)", s)
}

// Sequence computes the reveal order for a cols×rows grid.
// The result is a permutation of [0, cols*rows): every cell index appears
// exactly once. StyleAnts and StyleRandom use seed for reproducibility;
// the deterministic styles ignore it.
func Sequence(style Style, cols, rows int, seed int64) ([]int, error) {
	if cols <= 0 || rows <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "grid dimensions must be positive, got %dx%d", cols, rows)
	}

	switch style {
	case StyleSequential:
		return sequential(cols, rows), nil
	case StyleMatrix:
		return matrix(cols, rows), nil
	case StyleAnts:
		return ants(cols, rows, DefaultAnts, seed), nil
	case StyleRandom:
		return random(cols, rows, seed), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown animation style: %q", style)
}

// sequential returns the identity order: row by row, left to right.
func sequential(cols, rows int) []int {
	order := make([]int, cols*rows)
	for i := range order {
		order[i] = i
	}
	return order
}

// matrix returns a column-major order: column 0 top to bottom, then column 1.
func matrix(cols, rows int) []int {
	order := make([]int, 0, cols*rows)
	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			order = append(order, y*cols+x)
		}
	}
	return order
}

// random returns a uniform shuffle of all cell indices.
func random(cols, rows int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	order := sequential(cols, rows)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// ant is one wandering agent on the grid.
type ant struct {
	x, y int
}

// ants simulates numAnts agents dropping cells along their random walks.
//
// Each agent starts at a random cell. For each of cols*rows*2 steps, every
// agent records its current cell (if not yet recorded) and then moves to a
// random 8-neighbor, clamped to the grid; staying put is allowed. Cells the
// walk never reached are appended in random order so the result is always a
// full permutation.
func ants(cols, rows, numAnts int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))

	agents := make([]ant, numAnts)
	for i := range agents {
		agents[i] = ant{x: rng.Intn(cols), y: rng.Intn(rows)}
	}

	total := cols * rows
	order := make([]int, 0, total)
	visited := make([]bool, total)

	steps := total * antStepFactor
	for s := 0; s < steps && len(order) < total; s++ {
		for i := range agents {
			idx := agents[i].y*cols + agents[i].x
			if !visited[idx] {
				visited[idx] = true
				order = append(order, idx)
			}

			dx := rng.Intn(3) - 1
			dy := rng.Intn(3) - 1
			agents[i].x = clamp(agents[i].x+dx, 0, cols-1)
			agents[i].y = clamp(agents[i].y+dy, 0, rows-1)
		}
	}

	// Trails rarely cover everything; scatter the leftovers.
	remaining := make([]int, 0, total-len(order))
	for idx := 0; idx < total; idx++ {
		if !visited[idx] {
			remaining = append(remaining, idx)
		}
	}
	rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})

	return append(order, remaining...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
