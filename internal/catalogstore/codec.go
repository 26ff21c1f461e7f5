package catalogstore

import (
	"github.com/oxhq/gdlint/internal/provider"
	"github.com/oxhq/gdlint/internal/types"
)

func typeToName(t types.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// nameToType reconstructs a types.Type from a cached name. The catalog
// only ever caches built-in/engine types, which are always Concrete, so
// this is a safe, lossless round-trip for this store's domain (unlike
// types.Type in general, which also covers Union/DuckType/Nullable —
// those never originate from a provider's own catalog).
func nameToType(name string) types.Type {
	if name == "" {
		return nil
	}
	return &types.Concrete{Name: name}
}

func toMemberRecord(m provider.MemberInfo) memberRecord {
	params := make([]paramRecord, len(m.Parameters))
	for i, p := range m.Parameters {
		params[i] = paramRecord{Name: p.Name, Type: typeToName(p.Type), HasDefault: p.HasDefault}
	}
	return memberRecord{
		Name:       m.Name,
		Kind:       int(m.Kind),
		Type:       typeToName(m.Type),
		Static:     m.Static,
		Parameters: params,
	}
}

func fromMemberRecord(r memberRecord) provider.MemberInfo {
	params := make([]provider.ParamInfo, len(r.Parameters))
	for i, p := range r.Parameters {
		params[i] = provider.ParamInfo{Name: p.Name, Type: nameToType(p.Type), HasDefault: p.HasDefault}
	}
	return provider.MemberInfo{
		Name:       r.Name,
		Kind:       provider.MemberKind(r.Kind),
		Type:       nameToType(r.Type),
		Static:     r.Static,
		Parameters: params,
	}
}
