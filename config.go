package dvsim

// config.go holds the parameters that govern a simulation run

import (
	"encoding/json"
	"fmt"
	"time"
)

// Defaults for the simulation parameters
const (
	DefaultInfinityHops    = 5
	DefaultMailboxCapacity = 10
	DefaultStaticThreshold = 5
	DefaultMaxCountdown    = 4
	DefaultAutoFillCost    = 1
	DefaultMaxSteps        = 10000
)

// Config gathers the simulation parameters.  It is read from a yaml or json file,
// parameters absent from the file keep their default values.
type Config struct {
	// cost that stands for 'unreachable'
	InfinityHops int `json:"infinityhops" yaml:"infinityhops"`

	// number of advertisements a router's mailbox holds
	MailboxCapacity int `json:"mailboxcapacity" yaml:"mailboxcapacity"`

	// number of consecutive steps without a table change that declares convergence
	StaticThreshold int `json:"staticthreshold" yaml:"staticthreshold"`

	// countdowns are drawn uniformly from [0, MaxCountdown]
	MaxCountdown int `json:"maxcountdown" yaml:"maxcountdown"`

	// cost given to links once cost acquisition switches to auto-fill
	AutoFillCost int `json:"autofillcost" yaml:"autofillcost"`

	// Run gives up after this many steps, zero means no limit
	MaxSteps int `json:"maxsteps" yaml:"maxsteps"`

	// run each router's phase in its own goroutine
	Concurrent bool `json:"concurrent" yaml:"concurrent"`

	// countdown streams are derived from Seed, router i's from Seed+i.
	// Zero asks for a seed taken from the clock.
	Seed int64 `json:"seed" yaml:"seed"`

	// pause between steps when the run is being watched, written "500ms" in both
	// yaml and json files. json also accepts a count of nanoseconds.
	StepDelay time.Duration `json:"stepdelay" yaml:"stepdelay"`
}

// configPlain has the fields of Config without its json methods
type configPlain Config

// MarshalJSON writes StepDelay as a duration string
func (cfg Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		configPlain
		StepDelay string `json:"stepdelay"`
	}{configPlain(cfg), cfg.StepDelay.String()})
}

// UnmarshalJSON reads StepDelay from a duration string or a number of nanoseconds
func (cfg *Config) UnmarshalJSON(data []byte) error {
	aux := struct {
		*configPlain
		StepDelay any `json:"stepdelay"`
	}{configPlain: (*configPlain)(cfg)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch delay := aux.StepDelay.(type) {
	case nil:
	case string:
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("%w: stepdelay=%q", ErrBadParameter, delay)
		}
		cfg.StepDelay = d
	case float64:
		cfg.StepDelay = time.Duration(int64(delay))
	default:
		return fmt.Errorf("%w: stepdelay=%v", ErrBadParameter, delay)
	}
	return nil
}

// DefaultConfig returns a Config holding the default parameters
func DefaultConfig() *Config {
	return &Config{
		InfinityHops:    DefaultInfinityHops,
		MailboxCapacity: DefaultMailboxCapacity,
		StaticThreshold: DefaultStaticThreshold,
		MaxCountdown:    DefaultMaxCountdown,
		AutoFillCost:    DefaultAutoFillCost,
		MaxSteps:        DefaultMaxSteps,
	}
}

// Validate checks that every parameter is in range and reports all the
// problems found together
func (cfg *Config) Validate() error {
	problems := make([]error, 0)
	check := func(ok bool, name string, value any) {
		if !ok {
			problems = append(problems, fmt.Errorf("%w: %s=%v", ErrBadParameter, name, value))
		}
	}
	check(cfg.InfinityHops > 1, "infinityhops", cfg.InfinityHops)
	check(cfg.MailboxCapacity > 0, "mailboxcapacity", cfg.MailboxCapacity)
	check(cfg.StaticThreshold > 0, "staticthreshold", cfg.StaticThreshold)
	check(cfg.MaxCountdown >= 0, "maxcountdown", cfg.MaxCountdown)
	check(cfg.AutoFillCost > 0, "autofillcost", cfg.AutoFillCost)
	check(cfg.MaxSteps >= 0, "maxsteps", cfg.MaxSteps)
	check(cfg.StepDelay >= 0, "stepdelay", cfg.StepDelay)
	return newConfigurationError("config", problems)
}

// WriteToFile serializes the Config to json or yaml, selected by the file extension
func (cfg *Config) WriteToFile(filename string) error {
	return writeDesc(filename, cfg)
}

// ReadConfig deserializes a Config from dict, or from the named file if dict is empty.
// Parameters the input does not mention keep their defaults.
func ReadConfig(filename string, useYAML bool, dict []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := readDesc(filename, useYAML, dict, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
