package problemgen

import "fmt"

// DefaultSeed is the seed used when none is configured.
const DefaultSeed uint32 = 20240601

// Config controls a generator run.
type Config struct {
	// Seed fixes the whole run: the same seed always yields the same list.
	Seed uint32

	// TargetPerBucket is the number of questions wanted per
	// section/topic/difficulty bucket.
	TargetPerBucket int

	// MaxAttempts bounds the template draws per bucket. A bucket that has
	// not reached its target by then is emitted short.
	MaxAttempts int
}

// DefaultConfig returns the standard run configuration.
func DefaultConfig() Config {
	return Config{
		Seed:            DefaultSeed,
		TargetPerBucket: 40,
		MaxAttempts:     2000,
	}
}

func (c Config) validate() error {
	if c.TargetPerBucket <= 0 {
		return fmt.Errorf("target per bucket must be positive, got %d", c.TargetPerBucket)
	}
	if c.MaxAttempts < c.TargetPerBucket {
		return fmt.Errorf("max attempts (%d) must be at least the target (%d)", c.MaxAttempts, c.TargetPerBucket)
	}
	return nil
}
