package dvsim

// dvsim.go has the code that assembles a simulation from its input files

import (
	"fmt"
)

// keys of the map handed to BuildExperiment
const (
	TopoKey   = "topo"
	ConfigKey = "config"
)

// GetExperimentDicts reads the descriptions named in syn.  syn binds the keys
// TopoKey and ConfigKey to file names, whose extensions select yaml or json.
// A missing or empty file name selects the default topology or parameters.
func GetExperimentDicts(syn map[string]string) (*TopoDesc, *Config, error) {
	var td *TopoDesc
	var cfg *Config
	var err error

	errs := []error{}
	if name := syn[TopoKey]; len(name) > 0 {
		td, err = ReadTopoDesc(name, UseYAML(name), []byte{})
		if err != nil {
			errs = append(errs, fmt.Errorf("topology %s: %w", name, err))
		}
	} else {
		td = DefaultTopoDesc()
	}

	if name := syn[ConfigKey]; len(name) > 0 {
		cfg, err = ReadConfig(name, UseYAML(name), []byte{})
		if err != nil {
			errs = append(errs, fmt.Errorf("config %s: %w", name, err))
		}
	} else {
		cfg = DefaultConfig()
	}

	if err := ReportErrs(errs); err != nil {
		return nil, nil, err
	}
	return td, cfg, nil
}

// BuildExperiment is called from the module that creates and runs a simulation.
// Its inputs identify the names of input files, which it uses to assemble the
// topology and the routers.  When adjust is not nil it may change the parameters
// read before they are validated.  When provider is not nil it is asked for every
// link cost, in the order the description lists the links, before the
// topology is built.
func BuildExperiment(syn map[string]string, adjust func(*Config), provider CostProvider,
	opts ...DriverOption) (*Driver, error) {
	td, cfg, err := GetExperimentDicts(syn)
	if err != nil {
		return nil, err
	}
	if adjust != nil {
		adjust(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if provider != nil {
		if _, err := td.FillCosts(provider, cfg.AutoFillCost); err != nil {
			return nil, err
		}
	}

	topo, err := NewTopology(td)
	if err != nil {
		return nil, err
	}
	return NewDriver(topo, cfg, opts...)
}
