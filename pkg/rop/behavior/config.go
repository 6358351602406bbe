package behavior

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ib-77/ropflow/pkg/rop/plan"
)

var ErrInvalidConfig = errors.New("invalid behavior config")

// Config describes the behaviors to apply to a plan.
type Config struct {
	Retry   *RetryConfig  `yaml:"retry"`
	Timeout time.Duration `yaml:"timeout"`
}

type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Backoff     time.Duration `yaml:"backoff"`
	// RetryTimeouts makes timed-out attempts retryable.
	RetryTimeouts bool `yaml:"retry_timeouts"`
}

// LoadConfig decodes a YAML behavior config. Unknown fields are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode behavior config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %v", ErrInvalidConfig, c.Timeout)
	}
	if c.Retry != nil {
		if c.Retry.MaxAttempts < 1 {
			return fmt.Errorf("%w: max_attempts must be at least 1, got %d", ErrInvalidConfig, c.Retry.MaxAttempts)
		}
		if c.Retry.Backoff < 0 {
			return fmt.Errorf("%w: negative backoff %v", ErrInvalidConfig, c.Retry.Backoff)
		}
	}
	return nil
}

// Behaviors lists the configured behaviors in application order: the
// timeout first so that it bounds each retried attempt.
func (c Config) Behaviors() []plan.Behavior {
	var out []plan.Behavior
	if c.Timeout > 0 {
		out = append(out, NewTimeout(c.Timeout))
	}
	if c.Retry != nil {
		opts := []RetryOption{WithBackoff(c.Retry.Backoff)}
		if c.Retry.RetryTimeouts {
			opts = append(opts, WithNonRetryable())
		}
		out = append(out, NewRetry(c.Retry.MaxAttempts, opts...))
	}
	return out
}

// Apply rewrites node with every behavior of cfg.
func Apply[T any](node plan.Node[T], cfg Config) plan.Node[T] {
	for _, b := range cfg.Behaviors() {
		node = plan.Rewrite(node, b)
	}
	return node
}
