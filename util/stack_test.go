package util

import "testing"

func TestStack(t *testing.T) {
	stack := []int{1, 2, 3}

	*Last(stack) = 4
	if stack[2] != 4 {
		t.Fatalf("Last did not point into the slice: %v", stack)
	}

	Pop(&stack)
	if len(stack) != 2 || *Last(stack) != 2 {
		t.Fatalf("after Pop: %v", stack)
	}
}
