package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"romlookup/internal/language"
	"romlookup/internal/romdata"
)

var recordHeaders = []string{"Title", "System", "Region", "MD5", "File", "Sources"}

func recordRows(records []romdata.ROMMetadata) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rom := range records {
		rows = append(rows, []string{
			rom.GameTitle,
			rom.SystemID.String(),
			rom.Region,
			rom.MD5,
			rom.ROMFileName,
			joinSources(rom.Sources),
		})
	}
	return rows
}

// detailRows lists the populated fields of one record in display order.
func detailRows(rom romdata.ROMMetadata) [][]string {
	fields := []struct {
		label string
		value string
	}{
		{"Title", rom.GameTitle},
		{"System", rom.SystemID.String()},
		{"File", rom.ROMFileName},
		{"MD5", rom.MD5},
		{"CRC", rom.CRC},
		{"Region", rom.Region},
		{"Serial", rom.Serial},
		{"Size", sizeString(rom.ROMSize)},
		{"Language", languageNames(rom.Language)},
		{"Developer", rom.Developer},
		{"Publisher", rom.Publisher},
		{"Genres", rom.Genres},
		{"Released", rom.ReleaseDate},
		{"Box front", rom.BoxFrontURL},
		{"Box back", rom.BoxBackURL},
		{"Reference", rom.ReferenceURL},
		{"Sources", joinSources(rom.Sources)},
	}
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		rows = append(rows, []string{f.label, f.value})
	}
	return rows
}

func writeRecord(w io.Writer, rom romdata.ROMMetadata) {
	rows := detailRows(rom)
	if isTerminal(w) {
		fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows, nil))
		return
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s: %s\n", row[0], row[1])
	}
	if desc := strings.TrimSpace(rom.Description); desc != "" {
		fmt.Fprintf(w, "Description: %s\n", desc)
	}
}

func joinSources(kinds []romdata.SourceKind) string {
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, string(kind))
	}
	return strings.Join(names, ",")
}

func sizeString(size int64) string {
	if size <= 0 {
		return ""
	}
	return strconv.FormatInt(size, 10)
}

// languageNames expands a normalized code list ("en,fr") for display.
func languageNames(codes string) string {
	if strings.TrimSpace(codes) == "" {
		return ""
	}
	parts := strings.Split(codes, ",")
	names := make([]string, 0, len(parts))
	for _, code := range parts {
		names = append(names, language.DisplayName(code))
	}
	return strings.Join(names, ", ")
}
