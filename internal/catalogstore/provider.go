package catalogstore

import (
	"encoding/json"
	"sync"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/gdlint/internal/provider"
	"github.com/oxhq/gdlint/internal/types"
)

// Store is the read/write API over the catalog tables; CachedProvider is
// the only consumer, but it is exported so a caller can warm or inspect
// the cache directly (e.g. a future CLI subcommand that pre-populates it
// from a parsed engine API dump).
type Store struct {
	db *gorm.DB
}

// NewStore wraps an already-connected, already-migrated *gorm.DB.
func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// PutType upserts a type's info and member catalog.
func (s *Store) PutType(info provider.TypeInfo, members []provider.MemberInfo) error {
	records := make([]memberRecord, len(members))
	for i, m := range members {
		records[i] = toMemberRecord(m)
	}
	blob, err := json.Marshal(records)
	if err != nil {
		return err
	}
	row := TypeRow{Name: info.Name, Base: info.Base, IsEngine: info.IsEngine, Members: datatypes.JSON(blob)}
	return s.db.Save(&row).Error
}

// GetType returns a cached type's info and members, if present.
func (s *Store) GetType(name string) (provider.TypeInfo, []provider.MemberInfo, bool) {
	var row TypeRow
	if err := s.db.First(&row, "name = ?", name).Error; err != nil {
		return provider.TypeInfo{}, nil, false
	}
	var records []memberRecord
	if len(row.Members) > 0 {
		_ = json.Unmarshal(row.Members, &records)
	}
	members := make([]provider.MemberInfo, len(records))
	for i, r := range records {
		members[i] = fromMemberRecord(r)
	}
	return provider.TypeInfo{Name: row.Name, Base: row.Base, IsEngine: row.IsEngine}, members, true
}

// PutContainerProfile upserts a built-in container's reconstructed
// element/key type.
func (s *Store) PutContainerProfile(name string, element, key types.Type) error {
	row := ContainerProfileRow{Name: name, ElementType: typeToName(element), KeyType: typeToName(key)}
	return s.db.Save(&row).Error
}

// GetContainerProfile returns a cached container's element/key type.
func (s *Store) GetContainerProfile(name string) (element, key types.Type, ok bool) {
	var row ContainerProfileRow
	if err := s.db.First(&row, "name = ?", name).Error; err != nil {
		return nil, nil, false
	}
	return nameToType(row.ElementType), nameToType(row.KeyType), true
}

// PutOperator upserts one resolved binary-operator overload.
func (s *Store) PutOperator(left, op, right string, result types.Type) error {
	row := OperatorRow{Left: left, Op: op, Right: right, ResultType: typeToName(result)}
	return s.db.Save(&row).Error
}

// GetOperator returns a cached operator resolution.
func (s *Store) GetOperator(left, op, right string) (types.Type, bool) {
	var row OperatorRow
	if err := s.db.First(&row, "left = ? AND op = ? AND \"right\" = ?", left, op, right).Error; err != nil {
		return nil, false
	}
	return nameToType(row.ResultType), row.ResultType != ""
}

// CachedProvider wraps another provider.Provider with a disk-backed
// catalog cache (spec.md §6 "a caching wrapper must be composable around
// any provider"): a miss falls through to inner and persists the result;
// a hit never calls inner at all. This is the persistent counterpart to
// provider.CachingProvider's in-memory memoization — the two compose
// (CachedProvider commonly wraps a CachingProvider-wrapped inner, or vice
// versa) since each guards a different cache tier.
type CachedProvider struct {
	provider.Provider
	store *Store
	mu    sync.Mutex
}

// NewCachedProvider builds a CachedProvider over inner, persisting lookups
// through store.
func NewCachedProvider(inner provider.Provider, store *Store) *CachedProvider {
	return &CachedProvider{Provider: inner, store: store}
}

func (c *CachedProvider) TypeInfo(name string) (provider.TypeInfo, bool) {
	if info, _, ok := c.store.GetType(name); ok {
		return info, true
	}
	info, ok := c.Provider.TypeInfo(name)
	if ok {
		c.mu.Lock()
		_ = c.store.PutType(info, nil)
		c.mu.Unlock()
	}
	return info, ok
}

func (c *CachedProvider) Member(typeName, memberName string) (provider.MemberInfo, bool) {
	if _, members, ok := c.store.GetType(typeName); ok {
		for _, m := range members {
			if m.Name == memberName {
				return m, true
			}
		}
	}
	info, ok := c.Provider.Member(typeName, memberName)
	if ok {
		c.mu.Lock()
		tInfo, members, found := c.store.GetType(typeName)
		if !found {
			tInfo, _ = c.Provider.TypeInfo(typeName)
			tInfo.Name = typeName
		}
		members = append(members, info)
		_ = c.store.PutType(tInfo, members)
		c.mu.Unlock()
	}
	return info, ok
}

func (c *CachedProvider) IndexerElementType(name string) (types.Type, bool) {
	if elem, _, ok := c.store.GetContainerProfile(name); ok && elem != nil {
		return elem, true
	}
	elem, ok := c.Provider.IndexerElementType(name)
	if ok {
		c.mu.Lock()
		_ = c.store.PutContainerProfile(name, elem, nil)
		c.mu.Unlock()
	}
	return elem, ok
}

func (c *CachedProvider) ResolveOperator(left, op, right string) provider.OperatorResult {
	if result, ok := c.store.GetOperator(left, op, right); ok {
		return provider.OperatorResult{ResultType: result, Known: true}
	}
	res := c.Provider.ResolveOperator(left, op, right)
	if res.Known {
		c.mu.Lock()
		_ = c.store.PutOperator(left, op, right, res.ResultType)
		c.mu.Unlock()
	}
	return res
}
