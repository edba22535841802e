package sysmap

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"romlookup/internal/romdata"
	"romlookup/internal/systems"
)

// Map is an immutable bidirectional system-identifier table.
type Map struct {
	toCanonical map[romdata.SourceKind]map[string]systems.ID
	toNative    map[romdata.SourceKind]map[systems.ID]string
}

var (
	defaultOnce sync.Once
	defaultMap  *Map
)

// Default returns the table built from the system registry.
func Default() *Map {
	defaultOnce.Do(func() {
		m, err := New(systems.All())
		if err != nil {
			panic(err)
		}
		defaultMap = m
	})
	return defaultMap
}

// New builds a table from registry entries. It fails if two systems share a
// native key for the same source.
func New(infos []systems.Info) (*Map, error) {
	m := &Map{
		toCanonical: make(map[romdata.SourceKind]map[string]systems.ID, 3),
		toNative:    make(map[romdata.SourceKind]map[systems.ID]string, 3),
	}
	for _, kind := range romdata.DefaultPriority {
		m.toCanonical[kind] = make(map[string]systems.ID)
		m.toNative[kind] = make(map[systems.ID]string)
	}
	for _, info := range infos {
		if info.ID == systems.Unknown || info.ID == "" {
			continue
		}
		natives := map[romdata.SourceKind]string{
			romdata.SourceLibretroDB: info.Libretro,
			romdata.SourceShiraGame:  info.ShiraGame,
		}
		if info.OpenVGDB > 0 {
			natives[romdata.SourceOpenVGDB] = strconv.Itoa(info.OpenVGDB)
		}
		for kind, native := range natives {
			if strings.TrimSpace(native) == "" {
				continue
			}
			key := nativeKey(kind, native)
			if prev, dup := m.toCanonical[kind][key]; dup {
				return nil, fmt.Errorf("sysmap: %s key %q claimed by %s and %s", kind, native, prev, info.ID)
			}
			if _, dup := m.toNative[kind][info.ID]; dup {
				return nil, fmt.Errorf("sysmap: %s listed twice for %s", info.ID, kind)
			}
			m.toCanonical[kind][key] = info.ID
			m.toNative[kind][info.ID] = native
		}
	}
	return m, nil
}

// Canonical resolves a source-native key to the canonical identifier.
func (m *Map) Canonical(kind romdata.SourceKind, native string) (systems.ID, bool) {
	if m == nil {
		return systems.Unknown, false
	}
	id, ok := m.toCanonical[kind][nativeKey(kind, native)]
	if !ok {
		return systems.Unknown, false
	}
	return id, true
}

// Native returns the source-native key for a canonical identifier.
func (m *Map) Native(id systems.ID, kind romdata.SourceKind) (string, bool) {
	if m == nil || id == systems.Unknown {
		return "", false
	}
	native, ok := m.toNative[kind][id]
	return native, ok
}

// Supports reports whether the source carries the system.
func (m *Map) Supports(kind romdata.SourceKind, id systems.ID) bool {
	_, ok := m.Native(id, kind)
	return ok
}

// Systems lists the canonical identifiers a source supports, sorted.
func (m *Map) Systems(kind romdata.SourceKind) []systems.ID {
	if m == nil {
		return nil
	}
	out := make([]systems.ID, 0, len(m.toNative[kind]))
	for id := range m.toNative[kind] {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// FromOpenVGDB resolves an OpenVGDB systemID column value.
func (m *Map) FromOpenVGDB(systemID int) (systems.ID, bool) {
	return m.Canonical(romdata.SourceOpenVGDB, strconv.Itoa(systemID))
}

// OpenVGDBID returns the OpenVGDB numeric system ID for a canonical identifier.
func (m *Map) OpenVGDBID(id systems.ID) (int, bool) {
	native, ok := m.Native(id, romdata.SourceOpenVGDB)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(native)
	if err != nil {
		return 0, false
	}
	return n, true
}

func nativeKey(kind romdata.SourceKind, native string) string {
	native = strings.TrimSpace(native)
	switch kind {
	case romdata.SourceOpenVGDB:
		if n, err := strconv.Atoi(native); err == nil {
			return strconv.Itoa(n)
		}
		return native
	case romdata.SourceShiraGame:
		return strings.ToUpper(native)
	default:
		return strings.ToLower(native)
	}
}
