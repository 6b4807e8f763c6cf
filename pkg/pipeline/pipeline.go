// Package pipeline evaluates declarative op chains over collections. A
// pipeline is declared in YAML or JSON as a list of single-key objects,
// each key an "@"-prefixed verb:
//
//	pipeline:
//	  - "@keep": {key: class, equals: math}
//	  - "@group_by": [class]
//	  - "@agg":
//	      avg_grade: [grade, mean]
//	  - "@sort": {key: avg_grade, reverse: true}
//	  - "@head": 3
package pipeline

import (
	"strings"

	"github.com/go-logr/logr"
	"sigs.k8s.io/yaml"

	"github.com/recset/recset/pkg/collection"
	"github.com/recset/recset/pkg/util"
)

// Pipeline is an op chain that knows how to evaluate itself on a
// collection.
type Pipeline struct {
	ops []Op
	log logr.Logger
}

// Config is the serialized pipeline document.
type Config struct {
	Pipeline []Op `json:"pipeline"`
}

// New creates a pipeline from parsed ops.
func New(ops []Op, log logr.Logger) *Pipeline {
	return &Pipeline{ops: ops, log: log}
}

// FromYAML parses a pipeline document. Both YAML and JSON are accepted,
// and the op list may appear either under a "pipeline" key or as the
// top-level document.
func FromYAML(data []byte, log logr.Logger) (*Pipeline, error) {
	config := Config{}
	if err := yaml.Unmarshal(data, &config); err == nil && len(config.Pipeline) > 0 {
		return New(config.Pipeline, log), nil
	}

	ops := []Op{}
	if err := yaml.Unmarshal(data, &ops); err != nil {
		return nil, NewUnmarshalError("pipeline", string(data))
	}
	return New(ops, log), nil
}

// Evaluate applies the ops in order. A failing op aborts the pipeline and
// no collection is returned.
func (p *Pipeline) Evaluate(c *collection.Collection) (*collection.Collection, error) {
	for i := range p.ops {
		res, err := p.ops[i].Apply(c)
		if err != nil {
			return nil, NewPipelineError(err)
		}

		p.log.V(2).Info("op ready", "op", p.ops[i].String(), "in", c.Len(),
			"out", res.Len())

		c = res
	}
	return c, nil
}

func (p *Pipeline) String() string {
	return strings.Join(util.Map(func(o Op) string { return o.Name }, p.ops), "->")
}
