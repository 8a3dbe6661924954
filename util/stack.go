// Package util has small generic helpers for slices used as stacks.
package util

// Removes the top element. The stack must not be empty.
func Pop[T any](stack *[]T) {
	*stack = (*stack)[:len(*stack)-1]
}

// Returns a pointer to the top element so it can be modified in place.
// The stack must not be empty.
func Last[T any](stack []T) *T {
	return &stack[len(stack)-1]
}
