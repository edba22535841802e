package systems

import (
	"path/filepath"
	"slices"
	"strings"
)

// ID is the canonical identifier for a gaming system.
type ID string

// Unknown means no system was determined. It is a valid value, not an error.
const Unknown ID = "unknown"

const (
	Atari2600       ID = "atari2600"
	Atari5200       ID = "atari5200"
	Atari7800       ID = "atari7800"
	AtariLynx       ID = "lynx"
	AtariJaguar     ID = "jaguar"
	NES             ID = "nes"
	FDS             ID = "fds"
	SNES            ID = "snes"
	N64             ID = "n64"
	GameBoy         ID = "gb"
	GameBoyColor    ID = "gbc"
	GameBoyAdvance  ID = "gba"
	NintendoDS      ID = "ds"
	GameCube        ID = "gamecube"
	Wii             ID = "wii"
	VirtualBoy      ID = "virtualboy"
	SG1000          ID = "sg1000"
	MasterSystem    ID = "mastersystem"
	GameGear        ID = "gamegear"
	Genesis         ID = "genesis"
	SegaCD          ID = "segacd"
	Sega32X         ID = "sega32x"
	Saturn          ID = "saturn"
	Dreamcast       ID = "dreamcast"
	PSX             ID = "psx"
	PSP             ID = "psp"
	PCEngine        ID = "pce"
	PCEngineCD      ID = "pcecd"
	SuperGrafx      ID = "sgfx"
	PCFX            ID = "pcfx"
	NeoGeoPocket    ID = "ngp"
	NeoGeoPocketCol ID = "ngpc"
	WonderSwan      ID = "ws"
	WonderSwanColor ID = "wsc"
	ColecoVision    ID = "colecovision"
	Intellivision   ID = "intellivision"
	Vectrex         ID = "vectrex"
	Odyssey2        ID = "odyssey2"
	ThreeDO         ID = "3do"
)

// Info describes one system and the native keys each reference database uses for it.
// A zero OpenVGDB value or an empty string means the database does not carry the system.
type Info struct {
	ID           ID
	ShortName    string
	Name         string
	Manufacturer string
	Extensions   []string

	OpenVGDB  int
	Libretro  string
	ShiraGame string
}

// registry lists every supported system. Order is the display order used by All.
var registry = []Info{
	// Atari
	{ID: Atari2600, ShortName: "2600", Name: "Atari 2600", Manufacturer: "Atari", Extensions: []string{".a26"}, OpenVGDB: 3, Libretro: "Atari - 2600", ShiraGame: "ATARI_2600"},
	{ID: Atari5200, ShortName: "5200", Name: "Atari 5200", Manufacturer: "Atari", Extensions: []string{".a52"}, OpenVGDB: 4, Libretro: "Atari - 5200", ShiraGame: "ATARI_5200"},
	{ID: Atari7800, ShortName: "7800", Name: "Atari 7800", Manufacturer: "Atari", Extensions: []string{".a78"}, OpenVGDB: 5, Libretro: "Atari - 7800", ShiraGame: "ATARI_7800"},
	{ID: AtariLynx, ShortName: "lynx", Name: "Atari Lynx", Manufacturer: "Atari", Extensions: []string{".lnx", ".lyx", ".o"}, OpenVGDB: 6, Libretro: "Atari - Lynx", ShiraGame: "ATARI_LYNX"},
	{ID: AtariJaguar, ShortName: "jaguar", Name: "Atari Jaguar", Manufacturer: "Atari", Extensions: []string{".j64", ".jag"}, OpenVGDB: 7, Libretro: "Atari - Jaguar", ShiraGame: "ATARI_JAGUAR"},

	// Nintendo
	{ID: NES, ShortName: "nes", Name: "Nintendo Entertainment System", Manufacturer: "Nintendo", Extensions: []string{".nes", ".unf", ".unif"}, OpenVGDB: 25, Libretro: "Nintendo - Nintendo Entertainment System", ShiraGame: "NINTENDO_NES"},
	{ID: FDS, ShortName: "fds", Name: "Famicom Disk System", Manufacturer: "Nintendo", Extensions: []string{".fds"}, OpenVGDB: 18, Libretro: "Nintendo - Family Computer Disk System", ShiraGame: "NINTENDO_FDS"},
	{ID: SNES, ShortName: "snes", Name: "Super Nintendo Entertainment System", Manufacturer: "Nintendo", Extensions: []string{".sfc", ".smc", ".fig", ".swc", ".bs"}, OpenVGDB: 26, Libretro: "Nintendo - Super Nintendo Entertainment System", ShiraGame: "NINTENDO_SNES"},
	{ID: N64, ShortName: "n64", Name: "Nintendo 64", Manufacturer: "Nintendo", Extensions: []string{".n64", ".z64", ".v64"}, OpenVGDB: 23, Libretro: "Nintendo - Nintendo 64", ShiraGame: "NINTENDO_N64"},
	{ID: GameBoy, ShortName: "gb", Name: "Game Boy", Manufacturer: "Nintendo", Extensions: []string{".gb"}, OpenVGDB: 19, Libretro: "Nintendo - Game Boy", ShiraGame: "NINTENDO_GB"},
	{ID: GameBoyColor, ShortName: "gbc", Name: "Game Boy Color", Manufacturer: "Nintendo", Extensions: []string{".gbc"}, OpenVGDB: 21, Libretro: "Nintendo - Game Boy Color", ShiraGame: "NINTENDO_GBC"},
	{ID: GameBoyAdvance, ShortName: "gba", Name: "Game Boy Advance", Manufacturer: "Nintendo", Extensions: []string{".gba", ".agb"}, OpenVGDB: 20, Libretro: "Nintendo - Game Boy Advance", ShiraGame: "NINTENDO_GBA"},
	{ID: NintendoDS, ShortName: "nds", Name: "Nintendo DS", Manufacturer: "Nintendo", Extensions: []string{".nds"}, OpenVGDB: 24, Libretro: "Nintendo - Nintendo DS", ShiraGame: "NINTENDO_NDS"},
	{ID: GameCube, ShortName: "gamecube", Name: "GameCube", Manufacturer: "Nintendo", Extensions: []string{".gcm", ".rvz", ".iso"}, OpenVGDB: 22, Libretro: "Nintendo - GameCube", ShiraGame: "NINTENDO_GCN"},
	{ID: Wii, ShortName: "wii", Name: "Wii", Manufacturer: "Nintendo", Extensions: []string{".wbfs", ".wad", ".iso"}, OpenVGDB: 28, Libretro: "Nintendo - Wii", ShiraGame: "NINTENDO_WII"},
	{ID: VirtualBoy, ShortName: "vb", Name: "Virtual Boy", Manufacturer: "Nintendo", Extensions: []string{".vb", ".vboy"}, OpenVGDB: 27, Libretro: "Nintendo - Virtual Boy", ShiraGame: "NINTENDO_VB"},

	// Sega
	{ID: SG1000, ShortName: "sg1000", Name: "SG-1000", Manufacturer: "Sega", Extensions: []string{".sg"}, OpenVGDB: 35, Libretro: "Sega - SG-1000", ShiraGame: "SEGA_SG1000"},
	{ID: MasterSystem, ShortName: "sms", Name: "Master System", Manufacturer: "Sega", Extensions: []string{".sms"}, OpenVGDB: 31, Libretro: "Sega - Master System - Mark III", ShiraGame: "SEGA_MS"},
	{ID: GameGear, ShortName: "gg", Name: "Game Gear", Manufacturer: "Sega", Extensions: []string{".gg"}, OpenVGDB: 30, Libretro: "Sega - Game Gear", ShiraGame: "SEGA_GG"},
	{ID: Genesis, ShortName: "genesis", Name: "Genesis", Manufacturer: "Sega", Extensions: []string{".md", ".gen", ".smd", ".bin"}, OpenVGDB: 33, Libretro: "Sega - Mega Drive - Genesis", ShiraGame: "SEGA_GENESIS"},
	{ID: SegaCD, ShortName: "scd", Name: "Sega CD", Manufacturer: "Sega", Extensions: []string{".cue", ".chd", ".iso"}, OpenVGDB: 32, Libretro: "Sega - Mega-CD - Sega CD", ShiraGame: "SEGA_CD"},
	{ID: Sega32X, ShortName: "32x", Name: "32X", Manufacturer: "Sega", Extensions: []string{".32x"}, OpenVGDB: 29, Libretro: "Sega - 32X", ShiraGame: "SEGA_32X"},
	{ID: Saturn, ShortName: "saturn", Name: "Saturn", Manufacturer: "Sega", Extensions: []string{".cue", ".chd", ".ccd"}, OpenVGDB: 34, Libretro: "Sega - Saturn", ShiraGame: "SEGA_SATURN"},
	{ID: Dreamcast, ShortName: "dc", Name: "Dreamcast", Manufacturer: "Sega", Extensions: []string{".gdi", ".cdi", ".chd"}, Libretro: "Sega - Dreamcast", ShiraGame: "SEGA_DC"},

	// Sony
	{ID: PSX, ShortName: "psx", Name: "PlayStation", Manufacturer: "Sony", Extensions: []string{".cue", ".chd", ".pbp", ".m3u"}, OpenVGDB: 36, Libretro: "Sony - PlayStation", ShiraGame: "SONY_PSX"},
	{ID: PSP, ShortName: "psp", Name: "PlayStation Portable", Manufacturer: "Sony", Extensions: []string{".cso", ".iso"}, OpenVGDB: 37, Libretro: "Sony - PlayStation Portable", ShiraGame: "SONY_PSP"},

	// NEC
	{ID: PCEngine, ShortName: "pce", Name: "PC Engine", Manufacturer: "NEC", Extensions: []string{".pce"}, OpenVGDB: 14, Libretro: "NEC - PC Engine - TurboGrafx 16", ShiraGame: "NEC_PCE"},
	{ID: PCEngineCD, ShortName: "pcecd", Name: "PC Engine CD", Manufacturer: "NEC", Extensions: []string{".cue", ".chd"}, OpenVGDB: 15, Libretro: "NEC - PC Engine CD - TurboGrafx-CD", ShiraGame: "NEC_PCECD"},
	{ID: SuperGrafx, ShortName: "sgx", Name: "SuperGrafx", Manufacturer: "NEC", Extensions: []string{".sgx"}, OpenVGDB: 17, Libretro: "NEC - PC Engine SuperGrafx", ShiraGame: "NEC_SGX"},
	{ID: PCFX, ShortName: "pcfx", Name: "PC-FX", Manufacturer: "NEC", Extensions: []string{".cue", ".ccd"}, OpenVGDB: 16, Libretro: "NEC - PC-FX", ShiraGame: "NEC_PCFX"},

	// SNK / Bandai
	{ID: NeoGeoPocket, ShortName: "ngp", Name: "Neo Geo Pocket", Manufacturer: "SNK", Extensions: []string{".ngp"}, OpenVGDB: 38, Libretro: "SNK - Neo Geo Pocket", ShiraGame: "SNK_NGP"},
	{ID: NeoGeoPocketCol, ShortName: "ngpc", Name: "Neo Geo Pocket Color", Manufacturer: "SNK", Extensions: []string{".ngc", ".ngpc"}, OpenVGDB: 39, Libretro: "SNK - Neo Geo Pocket Color", ShiraGame: "SNK_NGPC"},
	{ID: WonderSwan, ShortName: "ws", Name: "WonderSwan", Manufacturer: "Bandai", Extensions: []string{".ws"}, OpenVGDB: 9, Libretro: "Bandai - WonderSwan", ShiraGame: "BANDAI_WS"},
	{ID: WonderSwanColor, ShortName: "wsc", Name: "WonderSwan Color", Manufacturer: "Bandai", Extensions: []string{".wsc"}, OpenVGDB: 10, Libretro: "Bandai - WonderSwan Color", ShiraGame: "BANDAI_WSC"},

	// Others
	{ID: ColecoVision, ShortName: "coleco", Name: "ColecoVision", Manufacturer: "Coleco", Extensions: []string{".col"}, OpenVGDB: 11, Libretro: "Coleco - ColecoVision", ShiraGame: "COLECO_CV"},
	{ID: Intellivision, ShortName: "intv", Name: "Intellivision", Manufacturer: "Mattel", Extensions: []string{".int", ".itv"}, OpenVGDB: 13, Libretro: "Mattel - Intellivision", ShiraGame: "MATTEL_INTV"},
	{ID: Vectrex, ShortName: "vectrex", Name: "Vectrex", Manufacturer: "GCE", Extensions: []string{".vec"}, OpenVGDB: 12, Libretro: "GCE - Vectrex", ShiraGame: "GCE_VECTREX"},
	{ID: Odyssey2, ShortName: "odyssey2", Name: "Odyssey 2", Manufacturer: "Magnavox", Extensions: []string{".o2"}, OpenVGDB: 40, Libretro: "Magnavox - Odyssey2", ShiraGame: "MAGNAVOX_O2"},
	{ID: ThreeDO, ShortName: "3do", Name: "3DO", Manufacturer: "Panasonic", Extensions: []string{".cue", ".chd", ".iso"}, OpenVGDB: 1, Libretro: "The 3DO Company - 3DO", ShiraGame: "PANASONIC_3DO"},
}

var (
	byID        map[ID]int
	byShortName map[string]ID
	byExtension map[string][]ID
)

func init() {
	byID = make(map[ID]int, len(registry))
	byShortName = make(map[string]ID, len(registry))
	byExtension = make(map[string][]ID)
	for i, info := range registry {
		if _, dup := byID[info.ID]; dup {
			panic("systems: duplicate id " + string(info.ID))
		}
		byID[info.ID] = i
		byShortName[strings.ToLower(info.ShortName)] = info.ID
		for _, ext := range info.Extensions {
			ext = strings.ToLower(ext)
			byExtension[ext] = append(byExtension[ext], info.ID)
		}
	}
}

func (id ID) String() string {
	return string(id)
}

// Known reports whether id is a registered system. Unknown is not registered.
func (id ID) Known() bool {
	_, ok := byID[id]
	return ok
}

// Lookup returns the registry entry for id.
func Lookup(id ID) (Info, bool) {
	idx, ok := byID[id]
	if !ok {
		return Info{}, false
	}
	return clone(registry[idx]), true
}

// All returns every registered system in display order.
func All() []Info {
	out := make([]Info, len(registry))
	for i, info := range registry {
		out[i] = clone(info)
	}
	return out
}

// Parse resolves a user-supplied system name. Both canonical IDs and short
// names are accepted, case-insensitively.
func Parse(value string) (ID, bool) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return Unknown, false
	}
	if _, ok := byID[ID(key)]; ok {
		return ID(key), true
	}
	if id, ok := byShortName[key]; ok {
		return id, true
	}
	return Unknown, false
}

// ForExtension returns every system that claims the extension. The leading
// dot is optional.
func ForExtension(ext string) []ID {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return nil
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return slices.Clone(byExtension[ext])
}

// FromFilename infers the system from a file extension. It only succeeds
// when exactly one system claims the extension.
func FromFilename(name string) (ID, bool) {
	candidates := ForExtension(filepath.Ext(strings.TrimSpace(name)))
	if len(candidates) != 1 {
		return Unknown, false
	}
	return candidates[0], true
}

func clone(info Info) Info {
	info.Extensions = slices.Clone(info.Extensions)
	return info
}
