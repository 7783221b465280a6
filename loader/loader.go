package loader

import (
	"github.com/pattyshack/gt/parseutil"
	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"

	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/ir"
)

// Lowered units are described in yaml, one list of units per file:
//
//	- unit: answer
//	  nodes:
//	    - {id: p, op: local, type: address, name: p}
//	    - {id: v, op: load, type: int32, addr: p}
//
// Node order in the description is execution order.  Nodes reference earlier
// nodes by id.  The description carries exactly what lowering would have
// decided: types, containment flags, addressing shapes, block strategies, and
// argument register assignments (by register name, resolved against the
// target's register set).
type unitDescription struct {
	Unit            string      `yaml:"unit"`
	UsesStackCookie bool        `yaml:"uses-stack-cookie"`
	Nodes           []yaml.Node `yaml:"nodes"`
}

// Decode all unit descriptions in content.  Description problems (bad
// references, unknown ops, unknown registers) are reported through the
// emitter; structural problems in the resulting units are left to the ir
// validator.
func Load(
	fileName string,
	content []byte,
	registerSet *architecture.RegisterSet,
	emitter *parseutil.Emitter,
) []*ir.Unit {
	documents := []yaml.Node{}
	err := yaml.Unmarshal(content, &documents)
	if err != nil {
		emitter.EmitErrors(errors.Wrap(err, "cannot parse %v", fileName))
		return nil
	}

	units := []*ir.Unit{}
	for idx := range documents {
		loader := &unitLoader{
			fileName:    fileName,
			registerSet: registerSet,
			emitter:     emitter,
			nodes:       map[string]ir.Node{},
		}

		unit := loader.load(&documents[idx])
		if unit != nil {
			units = append(units, unit)
		}
	}
	return units
}

type unitLoader struct {
	fileName    string
	registerSet *architecture.RegisterSet
	emitter     *parseutil.Emitter

	// Previously loaded nodes by id.
	nodes map[string]ir.Node
}

func (loader *unitLoader) load(unitNode *yaml.Node) *ir.Unit {
	description := unitDescription{}
	err := unitNode.Decode(&description)
	if err != nil {
		loader.emitter.EmitErrors(
			errors.Wrap(err, "cannot decode unit in %v", loader.fileName))
		return nil
	}

	unit := &ir.Unit{
		StartEndPos:     loader.position(unitNode),
		Name:            description.Unit,
		UsesStackCookie: description.UsesStackCookie,
	}

	for idx := range description.Nodes {
		node := loader.loadNode(&description.Nodes[idx])
		if node != nil {
			unit.Append(node)
		}
	}
	return unit
}

func (loader *unitLoader) location(node *yaml.Node) parseutil.Location {
	return parseutil.Location{
		FileName: loader.fileName,
		Line:     node.Line,
		Column:   node.Column,
	}
}

func (loader *unitLoader) position(node *yaml.Node) parseutil.StartEndPos {
	loc := loader.location(node)
	return parseutil.NewStartEndPos(loc, loc)
}

// Resolve a node id reference.  Empty references stay nil; the ir validator
// decides whether the operand was optional.
func (loader *unitLoader) resolve(
	ref string,
	pos parseutil.Location,
) ir.Node {
	if ref == "" {
		return nil
	}

	node, ok := loader.nodes[ref]
	if !ok {
		loader.emitter.Emit(pos, "reference to undefined node: %s", ref)
		return nil
	}
	return node
}

func (loader *unitLoader) resolveAll(
	refs []string,
	pos parseutil.Location,
) []ir.Node {
	result := []ir.Node{}
	for _, ref := range refs {
		node := loader.resolve(ref, pos)
		if node != nil {
			result = append(result, node)
		}
	}
	return result
}

func (loader *unitLoader) loadType(
	value string,
	pos parseutil.Location,
) ir.Type {
	if value == "" {
		loader.emitter.Emit(pos, "missing value type")
		return ir.VoidType
	}

	result := ir.Type(value)
	switch result {
	case ir.VoidType, ir.Int8Type, ir.Int16Type, ir.Int32Type, ir.Int64Type,
		ir.AddressType, ir.RefType, ir.Float32Type, ir.Float64Type,
		ir.Vector12Type, ir.Vector16Type, ir.StructType:

		return result
	}

	loader.emitter.Emit(pos, "unknown value type: %s", value)
	return ir.VoidType
}

func (loader *unitLoader) loadRegister(
	name string,
	pos parseutil.Location,
) *architecture.Register {
	if name == "" {
		return nil
	}

	for _, register := range loader.registerSet.General {
		if register.Name == name {
			return register
		}
	}
	for _, register := range loader.registerSet.Float {
		if register.Name == name {
			return register
		}
	}

	loader.emitter.Emit(pos, "unknown register: %s", name)
	return nil
}
