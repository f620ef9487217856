package usecase

import "fmt"

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}
