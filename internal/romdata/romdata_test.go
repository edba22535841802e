package romdata

import "testing"

func TestParseSourceKind(t *testing.T) {
	tests := []struct {
		in      string
		want    SourceKind
		wantErr bool
	}{
		{"openvgdb", SourceOpenVGDB, false},
		{" LibretroDB ", SourceLibretroDB, false},
		{"libretro", SourceLibretroDB, false},
		{"ShiraGame", SourceShiraGame, false},
		{"igdb", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSourceKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSourceKind(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseSourceKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsMD5(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"02CAE4C360567CD228E4DC951BE6CB85", true},
		{"f73d2d0eff548e8fc66996f27acf2b4b", true},
		{"c7658288", false},
		{"12344453465345", false},
		{"0000000000000000000000000000", false},
		{"zz3d2d0eff548e8fc66996f27acf2b4b", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsMD5(tt.in); got != tt.want {
			t.Errorf("IsMD5(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewArtworkMapping(t *testing.T) {
	mapping := NewArtworkMapping([]ArtworkEntry{
		{MD5: "02cae4c360567cd228e4dc951be6cb85", FileName: "Pitfall - The Mayan Adventure (USA).sfc", Title: "Pitfall: The Mayan Adventure"},
		{MD5: "02CAE4C360567CD228E4DC951BE6CB85", FileName: "dup.sfc", Title: "Duplicate"},
		{FileName: "nohash.sfc"},
	})

	if len(mapping.ROMMD5) != 1 {
		t.Fatalf("expected 1 md5 entry, got %d", len(mapping.ROMMD5))
	}
	entry, ok := mapping.ByMD5("02CAE4C360567CD228E4DC951BE6CB85")
	if !ok || entry.Title != "Pitfall: The Mayan Adventure" {
		t.Fatalf("unexpected md5 entry: %+v %v", entry, ok)
	}
	if key := mapping.ROMFileNameToMD5["Pitfall - The Mayan Adventure (USA).sfc"]; key != "02CAE4C360567CD228E4DC951BE6CB85" {
		t.Fatalf("unexpected filename key %q", key)
	}
	if _, ok := mapping.ByFileName("nohash.sfc"); ok {
		t.Fatal("entries without md5 must not be indexed")
	}
	if _, ok := mapping.ByFileName("dup.sfc"); !ok {
		t.Fatal("expected duplicate filename to resolve to the first entry")
	}
}

func TestNilArtworkMapping(t *testing.T) {
	var mapping *ArtworkMapping
	if _, ok := mapping.ByMD5("x"); ok {
		t.Fatal("nil mapping should not resolve")
	}
}
