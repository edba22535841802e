package systems

import (
	"slices"
	"testing"
)

func TestLookupKnownSystem(t *testing.T) {
	info, ok := Lookup(SNES)
	if !ok {
		t.Fatal("expected SNES to be registered")
	}
	if info.Libretro != "Nintendo - Super Nintendo Entertainment System" {
		t.Fatalf("unexpected libretro name %q", info.Libretro)
	}
	if info.OpenVGDB != 26 {
		t.Fatalf("unexpected openvgdb id %d", info.OpenVGDB)
	}
	if !slices.Contains(info.Extensions, ".sfc") {
		t.Fatalf("expected .sfc extension, got %v", info.Extensions)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup(Unknown); ok {
		t.Fatal("Unknown must not resolve to a registry entry")
	}
	if Unknown.Known() {
		t.Fatal("Unknown must not be Known")
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	info, _ := Lookup(SNES)
	info.Extensions[0] = ".zzz"
	again, _ := Lookup(SNES)
	if again.Extensions[0] == ".zzz" {
		t.Fatal("registry entry mutated through returned value")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want ID
		ok   bool
	}{
		{"snes", SNES, true},
		{"SNES", SNES, true},
		{" segacd ", SegaCD, true},
		{"scd", SegaCD, true},
		{"2600", Atari2600, true},
		{"", Unknown, false},
		{"dreamcast2", Unknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("Parse(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want ID
		ok   bool
	}{
		{"Pitfall - The Mayan Adventure (USA).sfc", SNES, true},
		{"PITFALL.SMC", SNES, true},
		{"Pitfall! (CCE) (PAL-M) [!].a26", Atari2600, true},
		{"Sonic CD (USA).cue", Unknown, false},
		{"readme", Unknown, false},
		{"game.xyz", Unknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromFilename(tt.name)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("FromFilename(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestForExtensionAmbiguous(t *testing.T) {
	got := ForExtension("cue")
	if len(got) < 2 {
		t.Fatalf("expected several systems for .cue, got %v", got)
	}
	if !slices.Contains(got, SegaCD) {
		t.Fatalf("expected SegaCD among %v", got)
	}
}

func TestRegistryNativeKeysUnique(t *testing.T) {
	openvgdb := map[int]ID{}
	libretro := map[string]ID{}
	shira := map[string]ID{}
	for _, info := range All() {
		if info.OpenVGDB != 0 {
			if prev, dup := openvgdb[info.OpenVGDB]; dup {
				t.Fatalf("openvgdb id %d shared by %s and %s", info.OpenVGDB, prev, info.ID)
			}
			openvgdb[info.OpenVGDB] = info.ID
		}
		if info.Libretro != "" {
			if prev, dup := libretro[info.Libretro]; dup {
				t.Fatalf("libretro name %q shared by %s and %s", info.Libretro, prev, info.ID)
			}
			libretro[info.Libretro] = info.ID
		}
		if info.ShiraGame != "" {
			if prev, dup := shira[info.ShiraGame]; dup {
				t.Fatalf("shiragame code %q shared by %s and %s", info.ShiraGame, prev, info.ID)
			}
			shira[info.ShiraGame] = info.ID
		}
	}
}
