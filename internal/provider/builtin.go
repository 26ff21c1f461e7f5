package provider

import "github.com/oxhq/gdlint/internal/types"

// builtinEntry describes one catalogued type in BuiltinProvider.
type builtinEntry struct {
	base     string
	isEngine bool
	members  map[string]MemberInfo
}

// BuiltinProvider is a small, hand-curated catalog of core engine and
// value types, enough to drive inference and duck-typing over common
// scripts without a live Godot installation. Production deployments
// should wrap a generated catalog (see internal/catalogstore) instead.
type BuiltinProvider struct {
	BaseProvider
	types map[string]builtinEntry
}

// NewBuiltinProvider constructs the default catalog.
func NewBuiltinProvider() *BuiltinProvider {
	p := &BuiltinProvider{types: map[string]builtinEntry{}}
	p.seed()
	return p
}

func (p *BuiltinProvider) seed() {
	value := func(name string) {
		p.types[name] = builtinEntry{members: map[string]MemberInfo{}}
	}
	engineChain := func(name, base string) {
		p.types[name] = builtinEntry{base: base, isEngine: true, members: map[string]MemberInfo{}}
	}

	for _, v := range []string{"int", "float", "bool", "String", "StringName", "NodePath",
		"Vector2", "Vector2i", "Vector3", "Vector3i", "Vector4", "Color", "Rect2", "Transform2D",
		"Transform3D", "Basis", "Quaternion", "Plane", "AABB", "RID", "Callable", "Signal",
		"Array", "Dictionary", "PackedByteArray", "PackedInt32Array", "PackedInt64Array",
		"PackedFloat32Array", "PackedFloat64Array", "PackedStringArray", "PackedVector2Array",
		"PackedVector3Array", "PackedColorArray", "Variant"} {
		value(v)
	}

	engineChain("Object", "")
	engineChain("RefCounted", "Object")
	engineChain("Resource", "RefCounted")
	engineChain("Node", "Object")
	engineChain("Node2D", "Node")
	engineChain("CanvasItem", "Node")
	engineChain("Node3D", "Node")
	engineChain("Control", "CanvasItem")
	engineChain("Spatial", "Node3D")
	engineChain("CharacterBody2D", "Node2D")
	engineChain("CharacterBody3D", "Node3D")
	engineChain("RigidBody2D", "Node2D")
	engineChain("Area2D", "Node2D")
	engineChain("Sprite2D", "Node2D")
	engineChain("Label", "Control")
	engineChain("Button", "Control")
	engineChain("Timer", "Node")
	engineChain("PackedScene", "Resource")

	// A handful of well-known Node members, enough to ground duck-typing
	// and member-resolution tests without requiring a generated catalog.
	p.types["Node"].members["name"] = MemberInfo{Name: "name", Kind: MemberProperty, Type: &types.Concrete{Name: "StringName"}}
	p.types["Node"].members["get_parent"] = MemberInfo{Name: "get_parent", Kind: MemberMethod, Type: &types.Concrete{Name: "Node"}}
	p.types["Node"].members["queue_free"] = MemberInfo{Name: "queue_free", Kind: MemberMethod, Type: &types.Variant{}}
	p.types["Node"].members["add_child"] = MemberInfo{Name: "add_child", Kind: MemberMethod, Type: &types.Variant{}}
	p.types["Node"].members["tree_entered"] = MemberInfo{Name: "tree_entered", Kind: MemberSignal}
	p.types["Node2D"].members["position"] = MemberInfo{Name: "position", Kind: MemberProperty, Type: &types.Concrete{Name: "Vector2"}}
	p.types["Node2D"].members["rotation"] = MemberInfo{Name: "rotation", Kind: MemberProperty, Type: &types.Concrete{Name: "float"}}
}

func (p *BuiltinProvider) IsKnownType(name string) bool {
	_, ok := p.types[name]
	return ok
}

func (p *BuiltinProvider) TypeInfo(name string) (TypeInfo, bool) {
	e, ok := p.types[name]
	if !ok {
		return TypeInfo{}, false
	}
	return TypeInfo{Name: name, Base: e.base, IsEngine: e.isEngine}, true
}

func (p *BuiltinProvider) BaseType(name string) (string, bool) {
	e, ok := p.types[name]
	if !ok || e.base == "" {
		return "", false
	}
	return e.base, true
}

func (p *BuiltinProvider) IsAssignableTo(from, to string) bool {
	if from == to || to == "Variant" {
		return true
	}
	for cur, ok := p.types[from]; ok; cur, ok = p.types[cur.base] {
		if cur.base == to {
			return true
		}
		if cur.base == "" {
			break
		}
	}
	return false
}

func (p *BuiltinProvider) Member(typeName, memberName string) (MemberInfo, bool) {
	for cur := typeName; cur != ""; {
		e, ok := p.types[cur]
		if !ok {
			return MemberInfo{}, false
		}
		if m, ok := e.members[memberName]; ok {
			return m, true
		}
		cur = e.base
	}
	return MemberInfo{}, false
}

func (p *BuiltinProvider) IsBuiltin(name string) bool {
	e, ok := p.types[name]
	return ok && !e.isEngine
}

func (p *BuiltinProvider) IsEngineType(name string) bool {
	e, ok := p.types[name]
	return ok && e.isEngine
}

var globalFunctions = map[string]MemberInfo{
	"print": {Name: "print", Kind: MemberMethod, Type: &types.Variant{}},
	"range": {Name: "range", Kind: MemberMethod, Type: &types.Concrete{Name: "Array"},
		Parameters: []ParamInfo{{Name: "from_or_to", Type: &types.Concrete{Name: "int"}}}},
	"randi": {Name: "randi", Kind: MemberMethod, Type: &types.Concrete{Name: "int"}},
	"randf": {Name: "randf", Kind: MemberMethod, Type: &types.Concrete{Name: "float"}},
	"str": {Name: "str", Kind: MemberMethod, Type: &types.Concrete{Name: "String"}},
	"len": {Name: "len", Kind: MemberMethod, Type: &types.Concrete{Name: "int"},
		Parameters: []ParamInfo{{Name: "value", Type: &types.Variant{}}}},
	"typeof": {Name: "typeof", Kind: MemberMethod, Type: &types.Concrete{Name: "int"},
		Parameters: []ParamInfo{{Name: "value", Type: &types.Variant{}}}},
	"min": {Name: "min", Kind: MemberMethod, Type: &types.Variant{}},
	"max": {Name: "max", Kind: MemberMethod, Type: &types.Variant{}},
}

func (p *BuiltinProvider) GlobalFunction(name string) (MemberInfo, bool) {
	info, ok := globalFunctions[name]
	return info, ok
}

func (p *BuiltinProvider) GlobalClass(name string) bool {
	e, ok := p.types[name]
	return ok && e.isEngine
}

var arithmeticResult = map[string]string{
	"int+int": "int", "int+float": "float", "float+int": "float", "float+float": "float",
	"int-int": "int", "int-float": "float", "float-int": "float", "float-float": "float",
	"int*int": "int", "int*float": "float", "float*int": "float", "float*float": "float",
	"int/int": "int", "int/float": "float", "float/int": "float", "float/float": "float",
	"String+String": "String",
}

func (p *BuiltinProvider) ResolveOperator(left, op, right string) OperatorResult {
	if op == "+" || op == "-" || op == "*" || op == "/" {
		if name, ok := arithmeticResult[left+op+right]; ok {
			return OperatorResult{ResultType: &types.Concrete{Name: name}, Known: true}
		}
	}
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "and", "or", "&&", "||":
		return OperatorResult{ResultType: &types.Concrete{Name: "bool"}, Known: true}
	}
	return OperatorResult{}
}

var iteratorElement = map[string]string{
	"PackedInt32Array": "int", "PackedInt64Array": "int", "PackedFloat32Array": "float",
	"PackedFloat64Array": "float", "PackedStringArray": "String", "PackedByteArray": "int",
	"PackedVector2Array": "Vector2", "PackedVector3Array": "Vector3", "PackedColorArray": "Color",
}

func (p *BuiltinProvider) IteratorElementType(containerType string) (types.Type, bool) {
	if name, ok := iteratorElement[containerType]; ok {
		return &types.Concrete{Name: name}, true
	}
	switch containerType {
	case "Array":
		return &types.Variant{}, true
	case "Dictionary":
		return &types.Variant{}, true
	case "String":
		return &types.Concrete{Name: "String"}, true
	}
	return nil, false
}

func (p *BuiltinProvider) IndexerElementType(containerType string) (types.Type, bool) {
	return p.IteratorElementType(containerType)
}

func (p *BuiltinProvider) PackedArrayElementType(name string) (types.Type, bool) {
	if elem, ok := iteratorElement[name]; ok {
		return &types.Concrete{Name: elem}, true
	}
	return nil, false
}

var numericTypes = map[string]bool{"int": true, "float": true}

var vectorTypes = map[string]bool{
	"Vector2": true, "Vector2i": true, "Vector3": true, "Vector3i": true, "Vector4": true,
}

var containerTypes = map[string]bool{"Array": true, "Dictionary": true}

func (p *BuiltinProvider) IsNumeric(name string) bool { return numericTypes[name] }
func (p *BuiltinProvider) IsString(name string) bool  { return name == "String" || name == "StringName" }
func (p *BuiltinProvider) IsVector(name string) bool  { return vectorTypes[name] }

func (p *BuiltinProvider) IsIterable(name string) bool {
	if p.IsContainer(name) || p.IsPackedArray(name) || p.IsString(name) {
		return true
	}
	_, ok := iteratorElement[name]
	return ok
}

func (p *BuiltinProvider) IsIndexable(name string) bool {
	return p.IsContainer(name) || p.IsPackedArray(name) || p.IsString(name)
}

// IsNullable reports whether name denotes a reference type whose values
// can be null (engine Object subclasses); built-in value types cannot.
func (p *BuiltinProvider) IsNullable(name string) bool {
	e, ok := p.types[name]
	return ok && e.isEngine
}

func (p *BuiltinProvider) IsContainer(name string) bool { return containerTypes[name] }

func (p *BuiltinProvider) IsPackedArray(name string) bool {
	_, ok := iteratorElement[name]
	return ok
}
