package dag

import "fmt"

// DefaultMaxLevels is the highest level Resolve assigns before giving up on
// the remaining packages.
const DefaultMaxLevels = 20

type resolveOptions struct {
	maxLevels int
}

type ResolveOption func(*resolveOptions) error

// WithMaxLevels sets the highest level number Resolve may assign. Packages
// still pending once that level has been filled are reported as unresolved.
func WithMaxLevels(n int) ResolveOption {
	return func(o *resolveOptions) error {
		if n < 0 {
			return fmt.Errorf("maximum level must not be negative, got %d", n)
		}
		o.maxLevels = n
		return nil
	}
}
