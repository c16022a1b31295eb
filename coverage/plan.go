package coverage

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/vtb/xact"
)

// A PlanBin is the declarative form of one bin in a coverage plan file.
// Exactly one of Equals, Range, Set, or Kind must be set.
type PlanBin struct {
	Name   string     `yaml:"name"`
	Equals *uint64    `yaml:"equals,omitempty"`
	Range  *PlanRange `yaml:"range,omitempty"`
	Set    []uint64   `yaml:"set,omitempty"`
	Kind   string     `yaml:"kind,omitempty"`
}

// A PlanRange is an inclusive payload range.
type PlanRange struct {
	Lo uint64 `yaml:"lo"`
	Hi uint64 `yaml:"hi"`
}

// A Plan is a static, externally supplied list of bin definitions.
type Plan struct {
	Bins []PlanBin `yaml:"bins"`
}

// LoadPlan reads a YAML coverage plan and resolves it into bins.
func LoadPlan(r io.Reader) ([]*Bin, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading coverage plan: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing coverage plan: %w", err)
	}

	bins := make([]*Bin, 0, len(plan.Bins))
	for i, pb := range plan.Bins {
		bin, err := resolveBin(pb)
		if err != nil {
			return nil, fmt.Errorf("bin %d (%s): %w", i, pb.Name, err)
		}

		bins = append(bins, bin)
	}

	return bins, nil
}

// LoadPlanFile reads a YAML coverage plan from a file.
func LoadPlanFile(path string) ([]*Bin, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadPlan(f)
}

func resolveBin(pb PlanBin) (*Bin, error) {
	if pb.Name == "" {
		return nil, fmt.Errorf("bin has no name")
	}

	numForms := 0
	if pb.Equals != nil {
		numForms++
	}
	if pb.Range != nil {
		numForms++
	}
	if len(pb.Set) > 0 {
		numForms++
	}
	if pb.Kind != "" {
		numForms++
	}

	if numForms != 1 {
		return nil, fmt.Errorf(
			"exactly one of equals, range, set, or kind must be set")
	}

	switch {
	case pb.Equals != nil:
		return NewEqualsBin(pb.Name, *pb.Equals), nil
	case pb.Range != nil:
		if pb.Range.Lo > pb.Range.Hi {
			return nil, fmt.Errorf("range lo %d > hi %d",
				pb.Range.Lo, pb.Range.Hi)
		}
		return NewRangeBin(pb.Name, pb.Range.Lo, pb.Range.Hi), nil
	case len(pb.Set) > 0:
		return NewSetBin(pb.Name, pb.Set...), nil
	default:
		kind, err := parseKind(pb.Kind)
		if err != nil {
			return nil, err
		}
		return NewKindBin(pb.Name, kind), nil
	}
}

func parseKind(s string) (xact.Kind, error) {
	switch s {
	case "stimulus":
		return xact.KindStimulus, nil
	case "response":
		return xact.KindResponse, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}
