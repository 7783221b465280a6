package loader

import (
	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"

	"github.com/pattyshack/shrike/ir"
)

type nodeHeader struct {
	Id string `yaml:"id"`
	Op string `yaml:"op"`
}

func (loader *unitLoader) loadNode(yamlNode *yaml.Node) ir.Node {
	header := nodeHeader{}
	err := yamlNode.Decode(&header)
	if err != nil {
		loader.emitter.EmitErrors(
			errors.Wrap(err, "cannot decode node in %v", loader.fileName))
		return nil
	}

	pos := loader.location(yamlNode)

	var result ir.Node
	switch header.Op {
	case "local":
		result = loader.loadLocal(yamlNode)
	case "local-addr":
		result = loader.loadLocalAddr(yamlNode)
	case "const":
		result = loader.loadConst(yamlNode)
	case "addr-mode":
		result = loader.loadAddrMode(yamlNode)
	case "pair":
		result = loader.loadPair(yamlNode)
	case "field-list":
		result = loader.loadFieldList(yamlNode)
	case "load", "store", "null-check":
		result = loader.loadIndir(yamlNode, ir.IndirAccess(header.Op))
	case "call":
		result = loader.loadCall(yamlNode)
	case "put-arg-reg":
		result = loader.loadPutArgReg(yamlNode)
	case "put-arg-stk":
		result = loader.loadPutArgStk(yamlNode)
	case "put-arg-split":
		result = loader.loadPutArgSplit(yamlNode)
	case "block":
		result = loader.loadBlockOp(yamlNode)
	case "cast":
		result = loader.loadCast(yamlNode)
	case "select":
		result = loader.loadSelect(yamlNode)
	default:
		loader.emitter.Emit(pos, "unknown node op: %s", header.Op)
		return nil
	}

	if result == nil {
		return nil
	}

	if header.Id != "" {
		_, ok := loader.nodes[header.Id]
		if ok {
			loader.emitter.Emit(pos, "duplicate node id: %s", header.Id)
			return nil
		}
		loader.nodes[header.Id] = result
	}
	return result
}

// Decode yamlNode into description, reporting decode failures.  Returns false
// when the node cannot be used.
func (loader *unitLoader) decode(
	yamlNode *yaml.Node,
	description interface{},
) bool {
	err := yamlNode.Decode(description)
	if err != nil {
		loader.emitter.EmitErrors(
			errors.Wrap(err, "cannot decode node in %v", loader.fileName))
		return false
	}
	return true
}

type localDescription struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Contained bool   `yaml:"contained"`
}

func (loader *unitLoader) loadLocal(yamlNode *yaml.Node) ir.Node {
	description := localDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	return &ir.LocalVar{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        loader.loadType(description.Type, loader.location(yamlNode)),
			IsContained: description.Contained,
		},
		Name: description.Name,
	}
}

type localAddrDescription struct {
	Name      string `yaml:"name"`
	Offset    int64  `yaml:"offset"`
	Contained bool   `yaml:"contained"`
}

func (loader *unitLoader) loadLocalAddr(yamlNode *yaml.Node) ir.Node {
	description := localAddrDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	return &ir.LocalAddr{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        ir.AddressType,
			IsContained: description.Contained,
		},
		Name:   description.Name,
		Offset: description.Offset,
	}
}

type constDescription struct {
	Value     int64  `yaml:"value"`
	Type      string `yaml:"type"`
	Contained bool   `yaml:"contained"`
}

func (loader *unitLoader) loadConst(yamlNode *yaml.Node) ir.Node {
	description := constDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	return &ir.IntConst{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        loader.loadType(description.Type, loader.location(yamlNode)),
			IsContained: description.Contained,
		},
		Value: description.Value,
	}
}

type addrModeDescription struct {
	Base   string `yaml:"base"`
	Index  string `yaml:"index"`
	Scale  int    `yaml:"scale"`
	Offset int64  `yaml:"offset"`
}

// Addressing expressions are contained by definition.
func (loader *unitLoader) loadAddrMode(yamlNode *yaml.Node) ir.Node {
	description := addrModeDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	pos := loader.location(yamlNode)
	return &ir.AddrMode{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        ir.AddressType,
			IsContained: true,
		},
		Base:   loader.resolve(description.Base, pos),
		Index:  loader.resolve(description.Index, pos),
		Scale:  description.Scale,
		Offset: description.Offset,
	}
}

type pairDescription struct {
	Low  string `yaml:"low"`
	High string `yaml:"high"`
}

func (loader *unitLoader) loadPair(yamlNode *yaml.Node) ir.Node {
	description := pairDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	pos := loader.location(yamlNode)
	return &ir.ValuePair{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        ir.Int64Type,
			IsContained: true,
		},
		Low:  loader.resolve(description.Low, pos),
		High: loader.resolve(description.High, pos),
	}
}

type fieldDescription struct {
	Value  string `yaml:"value"`
	Offset int    `yaml:"offset"`
}

type fieldListDescription struct {
	Fields []fieldDescription `yaml:"fields"`
}

func (loader *unitLoader) loadFieldList(yamlNode *yaml.Node) ir.Node {
	description := fieldListDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	pos := loader.location(yamlNode)
	fields := []ir.Field{}
	for _, field := range description.Fields {
		fields = append(
			fields,
			ir.Field{
				Value:  loader.resolve(field.Value, pos),
				Offset: field.Offset,
			})
	}

	return &ir.FieldList{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        ir.StructType,
			IsContained: true,
		},
		Fields: fields,
	}
}

type indirDescription struct {
	Type      string `yaml:"type"`
	Addr      string `yaml:"addr"`
	Value     string `yaml:"value"`
	Unaligned bool   `yaml:"unaligned"`
	Contained bool   `yaml:"contained"`
}

func (loader *unitLoader) loadIndir(
	yamlNode *yaml.Node,
	access ir.IndirAccess,
) ir.Node {
	description := indirDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	pos := loader.location(yamlNode)

	// Null check probes access a single byte.
	accessType := ir.Int8Type
	if description.Type != "" || access != ir.NullCheckAccess {
		accessType = loader.loadType(description.Type, pos)
	}
	return &ir.Indir{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        accessType,
			IsContained: description.Contained,
		},
		Access:    access,
		Addr:      loader.resolve(description.Addr, pos),
		Value:     loader.resolve(description.Value, pos),
		Unaligned: description.Unaligned,
	}
}

type callDescription struct {
	Type          string   `yaml:"type"`
	Label         string   `yaml:"label"`
	Target        string   `yaml:"target"`
	Args          []string `yaml:"args"`
	Helper        string   `yaml:"helper"`
	MultiRetTypes []string `yaml:"multi-ret-types"`

	FastTailCall         bool `yaml:"fast-tail-call"`
	ViaDispatchCell      bool `yaml:"via-dispatch-cell"`
	NeedsNullCheck       bool `yaml:"needs-null-check"`
	ProtectsContinuation bool `yaml:"protects-continuation"`
	UsesForeignError     bool `yaml:"uses-foreign-error"`
}

func (loader *unitLoader) loadCall(yamlNode *yaml.Node) ir.Node {
	description := callDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	pos := loader.location(yamlNode)

	helper := ir.HelperKind(description.Helper)
	switch helper {
	case ir.NotHelper, ir.InteropFrameHelper, ir.TlsAddressHelper:
	default:
		loader.emitter.Emit(pos, "unknown call helper: %s", description.Helper)
		helper = ir.NotHelper
	}

	multiRetTypes := []ir.Type{}
	for _, retType := range description.MultiRetTypes {
		multiRetTypes = append(multiRetTypes, loader.loadType(retType, pos))
	}
	if len(multiRetTypes) == 0 {
		multiRetTypes = nil
	}

	// Calls without a type are void.
	callType := ir.VoidType
	if description.Type != "" {
		callType = loader.loadType(description.Type, pos)
	}

	return &ir.Call{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        callType,
		},
		Label:                description.Label,
		Target:               loader.resolve(description.Target, pos),
		Args:                 loader.resolveAll(description.Args, pos),
		Helper:               helper,
		MultiRetTypes:        multiRetTypes,
		FastTailCall:         description.FastTailCall,
		ViaDispatchCell:      description.ViaDispatchCell,
		NeedsNullCheck:       description.NeedsNullCheck,
		ProtectsContinuation: description.ProtectsContinuation,
		UsesForeignError:     description.UsesForeignError,
	}
}

type putArgRegDescription struct {
	Type   string `yaml:"type"`
	Source string `yaml:"source"`
	Reg    string `yaml:"reg"`
}

func (loader *unitLoader) loadPutArgReg(yamlNode *yaml.Node) ir.Node {
	description := putArgRegDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	pos := loader.location(yamlNode)
	return &ir.PutArgReg{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        loader.loadType(description.Type, pos),
		},
		Source: loader.resolve(description.Source, pos),
		Reg:    loader.loadRegister(description.Reg, pos),
	}
}

type putArgStkDescription struct {
	Source      string `yaml:"source"`
	StackOffset int    `yaml:"stack-offset"`
	ByteSize    int    `yaml:"byte-size"`
}

func (loader *unitLoader) loadPutArgStk(yamlNode *yaml.Node) ir.Node {
	description := putArgStkDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	pos := loader.location(yamlNode)
	return &ir.PutArgStk{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        ir.VoidType,
		},
		Source:      loader.resolve(description.Source, pos),
		StackOffset: description.StackOffset,
		ByteSize:    description.ByteSize,
	}
}

type putArgSplitDescription struct {
	Source   string `yaml:"source"`
	RegCount int    `yaml:"reg-count"`
	BaseReg  string `yaml:"base-reg"`
	ByteSize int    `yaml:"byte-size"`
}

func (loader *unitLoader) loadPutArgSplit(yamlNode *yaml.Node) ir.Node {
	description := putArgSplitDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	pos := loader.location(yamlNode)
	return &ir.PutArgSplit{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        ir.StructType,
		},
		Source:   loader.resolve(description.Source, pos),
		RegCount: description.RegCount,
		BaseReg:  loader.loadRegister(description.BaseReg, pos),
		ByteSize: description.ByteSize,
	}
}

type blockOpDescription struct {
	Kind     string `yaml:"kind"`
	Strategy string `yaml:"strategy"`
	ByteSize int    `yaml:"byte-size"`
	Dst      string `yaml:"dst"`
	Src      string `yaml:"src"`
}

func (loader *unitLoader) loadBlockOp(yamlNode *yaml.Node) ir.Node {
	description := blockOpDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	pos := loader.location(yamlNode)
	return &ir.BlockOp{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        ir.VoidType,
		},
		Kind:     ir.BlockOpKind(description.Kind),
		Strategy: ir.BlockStrategy(description.Strategy),
		ByteSize: description.ByteSize,
		Dst:      loader.resolve(description.Dst, pos),
		Src:      loader.resolve(description.Src, pos),
	}
}

type castDescription struct {
	Type   string `yaml:"type"`
	Source string `yaml:"source"`
}

func (loader *unitLoader) loadCast(yamlNode *yaml.Node) ir.Node {
	description := castDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	pos := loader.location(yamlNode)
	return &ir.Cast{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        loader.loadType(description.Type, pos),
		},
		Source: loader.resolve(description.Source, pos),
	}
}

type selectDescription struct {
	Type string `yaml:"type"`
	Cond string `yaml:"cond"`
	Op1  string `yaml:"op1"`
	Op2  string `yaml:"op2"`
}

func (loader *unitLoader) loadSelect(yamlNode *yaml.Node) ir.Node {
	description := selectDescription{}
	if !loader.decode(yamlNode, &description) {
		return nil
	}

	pos := loader.location(yamlNode)
	return &ir.Select{
		NodeBase: ir.NodeBase{
			StartEndPos: loader.position(yamlNode),
			Type:        loader.loadType(description.Type, pos),
		},
		Cond: loader.resolve(description.Cond, pos),
		Op1:  loader.resolve(description.Op1, pos),
		Op2:  loader.resolve(description.Op2, pos),
	}
}
