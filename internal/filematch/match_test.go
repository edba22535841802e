package filematch

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pitfall - The Mayan Adventure (USA).sfc", "pitfall the mayan adventure"},
		{"Pitfall! (CCE) (PAL-M) [!].a26", "pitfall"},
		{"Pitfall (1983) (CCE) (C-813).a26", "pitfall"},
		{"Pitfall: The Mayan Adventure", "pitfall the mayan adventure"},
		{"POKÉMON Snap (U) [!].z64", "pokemon snap"},
		{"Legend of Zelda, The - A Link to the Past (USA).sfc", "the legend of zelda a link to the past"},
		{"Dr. Mario (World)", "dr mario"},
		{"Sonic CD {Rev 1}", "sonic cd"},
		{"(USA)", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestScoreTiers(t *testing.T) {
	const candidate = "Pitfall - The Mayan Adventure (USA).sfc"
	tests := []struct {
		query string
		want  Tier
	}{
		{"Pitfall - The Mayan Adventure (USA).sfc", TierExact},
		{"pitfall - the mayan adventure (usa)", TierExact},
		{"Pitfall - The Mayan Adventure", TierNormalized},
		{"Pitfall - The Mayan Adventure (Europe)", TierNormalized},
		{"Pitfall", TierPrefix},
		{"Mayan Adventure", TierSubstring},
		{"Mayan Adv", TierNone},
		{"Sonic", TierNone},
		{"", TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Score(tt.query, candidate)
			if got.Tier != tt.want {
				t.Fatalf("Score(%q).Tier = %s, want %s", tt.query, got.Tier, tt.want)
			}
			if Matches(tt.query, candidate) != (tt.want != TierNone) {
				t.Fatalf("Matches(%q) disagrees with tier %s", tt.query, tt.want)
			}
		})
	}
}

func TestRankExactBeforeFuzzy(t *testing.T) {
	candidates := []string{
		"Pitfall II - Lost Caverns (USA).a26",
		"Pitfall - The Mayan Adventure (Europe).sfc",
		"Pitfall - The Mayan Adventure (USA).sfc",
		"Super Pitfall (USA).nes",
	}
	ranked := Rank("Pitfall - The Mayan Adventure (USA)", candidates)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 matches, got %+v", ranked)
	}
	if ranked[0].Candidate != candidates[2] || ranked[0].Tier != TierExact {
		t.Fatalf("expected exact USA match first, got %+v", ranked[0])
	}
	if ranked[1].Candidate != candidates[1] || ranked[1].Tier != TierNormalized {
		t.Fatalf("expected annotated variant second, got %+v", ranked[1])
	}
}

func TestRankPrefersSimilarWithinTier(t *testing.T) {
	candidates := []string{
		"Pitfall II - Lost Caverns (USA).a26",
		"Pitfall Harry (USA).a26",
		"Pitfall - The Mayan Adventure (USA).sfc",
	}
	ranked := Rank("Pitfall", candidates)
	if len(ranked) != 3 {
		t.Fatalf("expected all prefix matches, got %+v", ranked)
	}
	for _, m := range ranked {
		if m.Tier != TierPrefix {
			t.Fatalf("expected prefix tier, got %+v", m)
		}
	}
	if ranked[0].Candidate != "Pitfall Harry (USA).a26" {
		t.Fatalf("expected shortest title first, got %+v", ranked)
	}
}

func TestRankStableOnTies(t *testing.T) {
	candidates := []string{"Pitfall (USA).a26", "Pitfall (Europe).a26"}
	ranked := Rank("Pitfall", candidates)
	if len(ranked) != 2 || ranked[0].Index != 0 || ranked[1].Index != 1 {
		t.Fatalf("expected input order on ties, got %+v", ranked)
	}
}

func TestBest(t *testing.T) {
	if _, ok := Best("Sonic", []string{"Pitfall (USA).a26"}); ok {
		t.Fatal("expected no match")
	}
	m, ok := Best("pitfall", []string{"Sonic (USA).md", "Pitfall (USA).a26"})
	if !ok || m.Index != 1 {
		t.Fatalf("unexpected best %+v %v", m, ok)
	}
	if _, ok := Best("", []string{"Pitfall"}); ok {
		t.Fatal("empty query must not match")
	}
}

func TestSearchTerm(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Pitfall - The Mayan Adventure (USA).sfc", "_dv_nt_r_", true},
		{"Pitfall", "p_tf_ll", true},
		{"Ys", "", false},
		{"Pokémon", "p_k_m__", true},
		{"Pokemon", "p_k_m__", true},
		{"POKÉMON - Red Version", "p_k_m__", true},
		{"Straße Fighter", "f_ght_r", true},
		{"ポケモン", "", false},
		{"(USA)", "", false},
	}
	for _, tt := range tests {
		got, ok := SearchTerm(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SearchTerm(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFilterKeepsMatchingItemsBestFirst(t *testing.T) {
	type row struct {
		id   int
		name string
	}
	rows := []row{
		{1, "Pitfall II - Lost Caverns (USA).a26"},
		{2, "Pitfall! (CCE) (PAL-M) [!].a26"},
		{3, "River Raid (USA).a26"},
	}
	got := Filter("Pitfall", rows, func(r row) string { return r.name })
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %+v", got)
	}
	if got[0].id != 2 || got[1].id != 1 {
		t.Fatalf("expected normalized match before prefix match, got %+v", got)
	}
	if Filter("Pitfall", []row(nil), func(r row) string { return r.name }) != nil {
		t.Fatal("expected nil for empty input")
	}
}
