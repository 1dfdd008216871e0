package split

import (
	"fmt"

	"github.com/arloliu/splitbson/internal/options"
)

// Default initial capacities for the three stream buffers. Schema and fixed
// streams carry bytes for every field, so they start with room to spare; the
// variable stream is empty for documents with no string fields.
const (
	DefaultSchemaCapacity   = 512
	DefaultFixedCapacity    = 512
	DefaultVariableCapacity = 0
)

// BuilderConfig holds the tunable parameters of a Builder.
type BuilderConfig struct {
	schemaCapacity int
	fixedCapacity  int
	varCapacity    int
}

// BuilderOption configures a Builder at construction time.
type BuilderOption = options.Option[*BuilderConfig]

func newBuilderConfig() *BuilderConfig {
	return &BuilderConfig{
		schemaCapacity: DefaultSchemaCapacity,
		fixedCapacity:  DefaultFixedCapacity,
		varCapacity:    DefaultVariableCapacity,
	}
}

// WithSchemaCapacity sets the initial capacity of the schema stream buffer.
func WithSchemaCapacity(n int) BuilderOption {
	return options.New(func(c *BuilderConfig) error {
		if n < 0 {
			return fmt.Errorf("invalid schema capacity: %d", n)
		}
		c.schemaCapacity = n

		return nil
	})
}

// WithFixedCapacity sets the initial capacity of the fixed stream buffer.
func WithFixedCapacity(n int) BuilderOption {
	return options.New(func(c *BuilderConfig) error {
		if n < 0 {
			return fmt.Errorf("invalid fixed capacity: %d", n)
		}
		c.fixedCapacity = n

		return nil
	})
}

// WithVariableCapacity sets the initial capacity of the variable stream buffer.
func WithVariableCapacity(n int) BuilderOption {
	return options.New(func(c *BuilderConfig) error {
		if n < 0 {
			return fmt.Errorf("invalid variable capacity: %d", n)
		}
		c.varCapacity = n

		return nil
	})
}
