package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"romlookup/internal/lookup"
	"romlookup/internal/romdata"
	"romlookup/internal/systems"
)

func newArtworkCommand(ctx *commandContext) *cobra.Command {
	var (
		fileFlag   string
		titleFlag  string
		systemFlag string
	)

	cmd := &cobra.Command{
		Use:   "artwork [md5]",
		Short: "List candidate artwork URLs for a ROM",
		Long: `List candidate artwork URLs for a ROM. URLs are derived from the reference
databases and are not fetched, so some may not exist on the server.

When --system is omitted the system is determined the same way as
"romlookup system". Without a hash, --file or --title is required.

Examples:
  romlookup artwork 02CAE4C360567CD228E4DC951BE6CB85
  romlookup artwork --file "Sonic CD (USA).cue"
  romlookup artwork --title "Pitfall" --system atari2600`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rom := romdata.ROMMetadata{
				ROMFileName: strings.TrimSpace(fileFlag),
				GameTitle:   strings.TrimSpace(titleFlag),
			}
			if len(args) > 0 {
				rom.MD5 = romdata.NormalizeHash(args[0])
				if !romdata.IsMD5(rom.MD5) {
					return fmt.Errorf("%q is not an MD5 hash (expected 32 hex characters)", args[0])
				}
			}
			if rom.MD5 == "" && rom.ROMFileName == "" && rom.GameTitle == "" {
				return errors.New("provide an MD5 hash, --file, or --title")
			}
			system, err := parseSystemFlag(systemFlag)
			if err != nil {
				return err
			}
			rom.SystemID = system

			return ctx.withFacade(cmd, func(qctx context.Context, facade *lookup.Facade) error {
				if rom.SystemID == systems.Unknown {
					id, ok, err := facade.SystemIdentifier(qctx, rom.MD5, rom.ROMFileName)
					if err != nil {
						return err
					}
					if !ok {
						return errors.New("system could not be determined; pass --system")
					}
					rom.SystemID = id
				}

				urls, err := facade.ArtworkURLs(qctx, rom)
				if err != nil {
					return err
				}
				values := make([]string, 0, len(urls))
				for _, u := range urls {
					values = append(values, u.String())
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, values)
				}
				out := cmd.OutOrStdout()
				if len(values) == 0 {
					fmt.Fprintln(out, "No artwork found")
					return nil
				}
				for _, v := range values {
					fmt.Fprintln(out, v)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "ROM file name")
	cmd.Flags().StringVarP(&titleFlag, "title", "t", "", "Game title")
	cmd.Flags().StringVarP(&systemFlag, "system", "s", "", "System of the ROM")
	return cmd
}

func newMappingsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mappings [md5|filename]",
		Short: "Show the artwork index built from the reference databases",
		Long: `Build the hash to artwork index from every database that provides one and
print a summary. With an argument, print the entry for that MD5 or ROM file
name instead. With --json and no argument the whole index is written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withFacade(cmd, func(qctx context.Context, facade *lookup.Facade) error {
				mapping, err := facade.ArtworkMappings(qctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				if len(args) == 0 {
					if ctx.jsonOutput() {
						return writeJSON(cmd, mapping)
					}
					writeRows(out, []string{"Index", "Entries"}, [][]string{
						{"md5", strconv.Itoa(len(mapping.ROMMD5))},
						{"file names", strconv.Itoa(len(mapping.ROMFileNameToMD5))},
					}, []columnAlignment{alignLeft, alignRight})
					return nil
				}

				key := strings.TrimSpace(args[0])
				entry, ok := mapping.ByMD5(key)
				if !ok {
					entry, ok = mapping.ByFileName(key)
				}
				if ctx.jsonOutput() {
					if !ok {
						return writeJSON(cmd, nil)
					}
					return writeJSON(cmd, entry)
				}
				if !ok {
					fmt.Fprintf(out, "No artwork entry for %s\n", key)
					return nil
				}
				writeRows(out, []string{"Field", "Value"}, entryRows(entry), nil)
				return nil
			})
		},
	}
	return cmd
}

func entryRows(entry romdata.ArtworkEntry) [][]string {
	rows := [][]string{
		{"Title", entry.Title},
		{"System", entry.SystemID.String()},
		{"File", entry.FileName},
		{"MD5", entry.MD5},
	}
	if entry.BoxFrontURL != "" {
		rows = append(rows, []string{"Box front", entry.BoxFrontURL})
	}
	if entry.BoxBackURL != "" {
		rows = append(rows, []string{"Box back", entry.BoxBackURL})
	}
	return rows
}
