package dvsim

// desc-topo.go holds the serializable description of a routing topology,
// the functions that read and write it, and the cost acquisition used to
// fill in link costs before the description is turned into a Topology

import (
	"bufio"
	"encoding/json"
	"fmt"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// LinkDesc gives the cost of transmission in one direction between two adjacent nodes.
// An undirected link is described by two LinkDesc entries, one in each direction.
type LinkDesc struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Cost int    `json:"cost" yaml:"cost"`
}

// TopoDesc is the serializable description of a topology. Nodes lists the
// node names, the position of a name in the list is the node's id.
// The order of Links is the order in which link costs are acquired.
type TopoDesc struct {
	Name  string     `json:"name" yaml:"name"`
	Nodes []string   `json:"nodes" yaml:"nodes"`
	Links []LinkDesc `json:"links" yaml:"links"`
}

// CreateTopoDesc is a constructor
func CreateTopoDesc(name string, nodes ...string) *TopoDesc {
	td := new(TopoDesc)
	td.Name = name
	td.Nodes = append([]string{}, nodes...)
	td.Links = make([]LinkDesc, 0)
	return td
}

// AddLink includes an undirected link between nodes a and b,
// with cost costAB from a to b and costBA from b to a
func (td *TopoDesc) AddLink(a, b string, costAB, costBA int) {
	td.Links = append(td.Links, LinkDesc{From: a, To: b, Cost: costAB})
	td.Links = append(td.Links, LinkDesc{From: b, To: a, Cost: costBA})
}

// AddDirected includes the cost of one direction of a link
func (td *TopoDesc) AddDirected(from, to string, cost int) {
	td.Links = append(td.Links, LinkDesc{From: from, To: to, Cost: cost})
}

// defaultNeighbors is the six-node diagram, one row per node in id order
//
//	     B ------ D
//	    /| \      |\
//	   / |  \     | \
//	  A  |   \    |  F
//	   \ |    \   | /
//	    \|     \  |/
//	     C ------ E
//
// Within a row neighbors are listed in the order their costs are prompted for,
// which is not always id order (E asks for C before B, F for E before D).
var defaultNeighbors = [][]string{
	{"B", "C"},
	{"A", "C", "D", "E"},
	{"A", "B", "E"},
	{"B", "E", "F"},
	{"C", "B", "D", "F"},
	{"E", "D"},
}

// DefaultTopoDesc returns the six-node reference topology with every cost set to 1.
// Links are listed source by source, so that cost acquisition visits the pairs
// node by node the way an operator filling in the diagram would.
func DefaultTopoDesc() *TopoDesc {
	td := CreateTopoDesc("default", "A", "B", "C", "D", "E", "F")
	for idx, src := range td.Nodes {
		for _, dst := range defaultNeighbors[idx] {
			td.AddDirected(src, dst, 1)
		}
	}
	return td
}

// NumLinks returns the number of undirected links, counting each pair of directions once
func (td *TopoDesc) NumLinks() int {
	return len(td.Links) / 2
}

// CostProvider is called for each ordered pair of adjacent nodes to acquire its cost.
// Returning 0 asks that this cost and every cost acquired after it be auto-filled.
type CostProvider func(from, to string) (int, error)

// ConstCostProvider returns a CostProvider that gives every link the same cost
func ConstCostProvider(cost int) CostProvider {
	return func(from, to string) (int, error) {
		return cost, nil
	}
}

// ScannerCostProvider returns a CostProvider that prompts on w with C(from,to)= and reads
// an integer from r, one per line. Input that does not parse as an integer is rejected
// and the prompt repeated. End of input is treated as a request to auto-fill.
func ScannerCostProvider(r io.Reader, w io.Writer) CostProvider {
	scanner := bufio.NewScanner(r)
	return func(from, to string) (int, error) {
		for {
			fmt.Fprintf(w, "C(%s,%s)=", from, to)
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return 0, err
				}
				fmt.Fprintln(w)
				return 0, nil
			}
			text := strings.TrimSpace(scanner.Text())
			cost, err := strconv.Atoi(text)
			if err != nil || cost < 0 {
				fmt.Fprintf(w, "%q is not a non-negative integer\n", text)
				continue
			}
			return cost, nil
		}
	}
}

// FillCosts walks the links in order and asks provider for each cost.
// Once the provider returns 0, that link and all remaining links receive autoCost
// and the provider is not called again. The return is the number of costs
// the provider supplied itself.
func (td *TopoDesc) FillCosts(provider CostProvider, autoCost int) (int, error) {
	autoFill := false
	supplied := 0
	problems := make([]error, 0)

	for idx := range td.Links {
		link := &td.Links[idx]
		if autoFill {
			link.Cost = autoCost
			continue
		}
		cost, err := provider(link.From, link.To)
		if err != nil {
			return supplied, err
		}
		switch {
		case cost == 0:
			autoFill = true
			link.Cost = autoCost
		case cost < 0:
			problems = append(problems,
				fmt.Errorf("%w: C(%s,%s)=%d", ErrNonPositiveCost, link.From, link.To, cost))
		default:
			link.Cost = cost
			supplied += 1
		}
	}
	return supplied, newConfigurationError(td.Name, problems)
}

// WriteToFile serializes the TopoDesc and writes to the file whose name is given as an input argument.
// Extension of the file name selects whether serialization is to json or to yaml format.
func (td *TopoDesc) WriteToFile(filename string) error {
	return writeDesc(filename, td)
}

// ReadTopoDesc deserializes a byte slice holding a representation of a TopoDesc struct.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read
// to acquire them.  A deserialized representation is returned, or an error if one is generated
// from a file read or the deserialization.
func ReadTopoDesc(filename string, useYAML bool, dict []byte) (*TopoDesc, error) {
	td := TopoDesc{}
	if err := readDesc(filename, useYAML, dict, &td); err != nil {
		return nil, err
	}
	return &td, nil
}

// writeDesc serializes v to json or yaml, selected by the extension of filename
func writeDesc(filename string, v any) error {
	pathExt := path.Ext(filename)
	var bytes []byte
	var merr error

	switch pathExt {
	case ".yaml", ".YAML", ".yml":
		bytes, merr = yaml.Marshal(v)
	case ".json", ".JSON":
		bytes, merr = json.MarshalIndent(v, "", "\t")
	default:
		return fmt.Errorf("output file %s needs a .yaml or .json extension", filename)
	}
	if merr != nil {
		return merr
	}

	f, cerr := os.Create(filename)
	if cerr != nil {
		return cerr
	}
	_, werr := f.Write(bytes)
	if werr != nil {
		f.Close()
		return werr
	}
	return f.Close()
}

// readDesc fills v from dict, or from the named file when dict is empty
func readDesc(filename string, useYAML bool, dict []byte, v any) error {
	var err error

	// read from the file only if the byte slice is empty
	if len(dict) == 0 {
		fileInfo, serr := os.Stat(filename)
		if serr != nil || fileInfo.IsDir() {
			return fmt.Errorf("%s does not exist or cannot be read", filename)
		}
		dict, err = os.ReadFile(filename)
		if err != nil {
			return err
		}
	}

	if useYAML {
		err = yaml.Unmarshal(dict, v)
	} else {
		err = json.Unmarshal(dict, v)
	}
	return err
}

// UseYAML reports whether the extension of filename selects yaml rather than json
func UseYAML(filename string) bool {
	switch path.Ext(filename) {
	case ".yaml", ".YAML", ".yml":
		return true
	}
	return false
}

// CheckReadableFiles probes the file system to ensure that every
// one of the argument filenames exists and is readable
func CheckReadableFiles(names []string) (bool, error) {
	return CheckFiles(names, true)
}

// CheckOutputFiles probes the file system to ensure that every
// argument filename can be written.
func CheckOutputFiles(names []string) (bool, error) {
	return CheckFiles(names, false)
}

// CheckFiles probes the file system for permitted access to all the
// argument filenames, optionally checking also for the existence
// of those files for the purposes of reading them.
func CheckFiles(names []string, checkExistence bool) (bool, error) {
	// make sure that the directory of each named file exists
	errs := make([]error, 0)

	for _, name := range names {

		// skip empty names, the option was not used
		if len(name) == 0 {
			continue
		}

		// split off the directory portion of the path
		directory, _ := filepath.Split(name)
		if len(directory) == 0 {
			directory = "."
		}
		if _, err := os.Stat(directory); err != nil {
			errs = append(errs, err)
		}

		// if required, check for the reachability and existence of each file
		if checkExistence {
			if _, err := os.Stat(name); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) == 0 {
		return true, nil
	}
	return false, ReportErrs(errs)
}
