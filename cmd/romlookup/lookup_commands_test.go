package main

import (
	"encoding/json"
	"strings"
	"testing"

	"romlookup/internal/romdata"
	"romlookup/internal/systems"
	"romlookup/internal/testsupport"
)

func TestHashCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"hash", strings.ToLower(testsupport.PitfallAtariMD5)}, env.configPath)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	requireContains(t, out, "Title: Pitfall\n")
	requireContains(t, out, "System: atari2600\n")
	requireContains(t, out, "Region: USA\n")
	requireContains(t, out, "Sources: openvgdb,shiragame\n")
}

func TestHashCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "hash", testsupport.PitfallSNESMD5}, env.configPath)
	if err != nil {
		t.Fatalf("hash --json: %v", err)
	}
	var rom romdata.ROMMetadata
	if err := json.Unmarshal([]byte(out), &rom); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if rom.SystemID != systems.SNES {
		t.Fatalf("system = %q", rom.SystemID)
	}
	if rom.ROMFileName != testsupport.PitfallSNESFileName {
		t.Fatalf("file name = %q", rom.ROMFileName)
	}
}

func TestHashCommandSystemFilter(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"hash", testsupport.PitfallSNESMD5, "--system", "genesis"}, env.configPath)
	if err != nil {
		t.Fatalf("hash --system: %v", err)
	}
	requireContains(t, out, "No match for "+testsupport.PitfallSNESMD5)

	out, _, err = runCLI(t, []string{"hash", testsupport.PitfallSNESMD5, "--system", "SNES"}, env.configPath)
	if err != nil {
		t.Fatalf("hash --system: %v", err)
	}
	requireContains(t, out, "System: snes\n")
}

func TestHashCommandNoMatch(t *testing.T) {
	env := setupCLITestEnv(t)
	unknown := strings.Repeat("AB", 16)

	out, _, err := runCLI(t, []string{"hash", unknown}, env.configPath)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	requireContains(t, out, "No match for "+unknown)

	out, _, err = runCLI(t, []string{"--json", "hash", unknown}, env.configPath)
	if err != nil {
		t.Fatalf("hash --json: %v", err)
	}
	if strings.TrimSpace(out) != "null" {
		t.Fatalf("expected null, got %q", out)
	}
}

func TestHashCommandRejectsInput(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"hash", "not-a-hash"}, env.configPath); err == nil {
		t.Fatal("expected error for invalid hash")
	}
	_, _, err := runCLI(t, []string{"hash", testsupport.PitfallSNESMD5, "--system", "pdp11"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "unknown system") {
		t.Fatalf("expected unknown system error, got %v", err)
	}
}

func TestSearchCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "search", "Pitfall", "--system", "atari2600"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var results []romdata.ROMMetadata
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, rom := range results {
		if rom.SystemID != systems.Atari2600 {
			t.Fatalf("result outside requested system: %+v", rom)
		}
	}
	if strings.ToUpper(results[0].MD5) != testsupport.PitfallAtariMD5 {
		t.Fatalf("best match = %q", results[0].MD5)
	}

	out, _, err = runCLI(t, []string{"search", "Pitfall", "-s", "atari2600"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 plain lines, got %q", out)
	}
	if fields := strings.Split(lines[0], "\t"); len(fields) != len(recordHeaders) || fields[1] != "atari2600" {
		t.Fatalf("unexpected row %q", lines[0])
	}
}

func TestSearchCommandNoMatches(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"search", "Pitfall", "--system", "nes"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "No matches")

	out, _, err = runCLI(t, []string{"--json", "search", "Pitfall", "--system", "nes"}, env.configPath)
	if err != nil {
		t.Fatalf("search --json: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected empty array, got %q", out)
	}
}

func TestSystemCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"system", testsupport.PitfallAtariMD5}, env.configPath)
	if err != nil {
		t.Fatalf("system: %v", err)
	}
	requireContains(t, out, "atari2600 (Atari 2600)")

	out, _, err = runCLI(t, []string{"--json", "system", "--file", testsupport.SonicCDFileName}, env.configPath)
	if err != nil {
		t.Fatalf("system --file: %v", err)
	}
	var answer systemAnswer
	if err := json.Unmarshal([]byte(out), &answer); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if !answer.Found || answer.System != systems.SegaCD || answer.OpenVGDBID != 32 {
		t.Fatalf("unexpected answer %+v", answer)
	}

	out, _, err = runCLI(t, []string{"system", "--file", "notes.txt"}, env.configPath)
	if err != nil {
		t.Fatalf("system --file: %v", err)
	}
	requireContains(t, out, "could not be determined")

	if _, _, err := runCLI(t, []string{"system"}, env.configPath); err == nil {
		t.Fatal("expected error without hash or file")
	}
}

func TestOpenFailurePointsAtCheck(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.OpenVGDB.Path = env.cfg.OpenVGDB.Path + ".missing"
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"hash", testsupport.PitfallAtariMD5}, env.configPath)
	if err == nil {
		t.Fatal("expected open failure")
	}
	requireContains(t, err.Error(), "romlookup check")
}

func TestHashCommandShowsLanguageNames(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"hash", testsupport.PitfallSNESMD5}, env.configPath)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	requireContains(t, out, "Language: English\n")
}
