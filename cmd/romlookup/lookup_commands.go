package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"romlookup/internal/lookup"
	"romlookup/internal/romdata"
	"romlookup/internal/systems"
)

func newHashCommand(ctx *commandContext) *cobra.Command {
	var systemFlag string

	cmd := &cobra.Command{
		Use:   "hash <md5>",
		Short: "Look up a ROM by its MD5 hash",
		Long: `Look up a ROM by MD5 in every enabled reference database and print the
merged record. Fields come from the highest-priority database that has them.

Examples:
  romlookup hash F73D2D0EFF548E8FC66996F27ACF2B4B
  romlookup hash 02cae4c360567cd228e4dc951be6cb85 --system snes --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md5 := strings.TrimSpace(args[0])
			if !romdata.IsMD5(md5) {
				return fmt.Errorf("%q is not an MD5 hash (expected 32 hex characters)", md5)
			}
			system, err := parseSystemFlag(systemFlag)
			if err != nil {
				return err
			}

			return ctx.withFacade(cmd, func(qctx context.Context, facade *lookup.Facade) error {
				var rom *romdata.ROMMetadata
				if system == systems.Unknown {
					rom, err = facade.SearchROMByMD5(qctx, md5)
				} else {
					var matches []romdata.ROMMetadata
					matches, err = facade.SearchByMD5(qctx, md5, system)
					if len(matches) > 0 {
						rom = &matches[0]
					}
				}
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, rom)
				}
				out := cmd.OutOrStdout()
				if rom == nil {
					fmt.Fprintf(out, "No match for %s\n", romdata.NormalizeHash(md5))
					return nil
				}
				writeRecord(out, *rom)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&systemFlag, "system", "s", "", "Only accept a match for this system")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var systemFlags []string

	cmd := &cobra.Command{
		Use:   "search <filename>",
		Short: "Search ROMs by file name or title",
		Long: `Search every enabled reference database for ROMs whose file name or title
matches the query. Results are merged by MD5 and listed best match first.

Examples:
  romlookup search "Pitfall"
  romlookup search "Pitfall (USA).sfc" --system snes
  romlookup search "Sonic CD" -s segacd -s saturn`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(args[0])
			if query == "" {
				return errors.New("search query must not be empty")
			}
			ids, err := parseSystemFlags(systemFlags)
			if err != nil {
				return err
			}

			return ctx.withFacade(cmd, func(qctx context.Context, facade *lookup.Facade) error {
				results, err := facade.SearchByFilenameSystems(qctx, query, ids)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					if results == nil {
						results = []romdata.ROMMetadata{}
					}
					return writeJSON(cmd, results)
				}
				out := cmd.OutOrStdout()
				if len(results) == 0 {
					fmt.Fprintln(out, "No matches")
					return nil
				}
				writeRows(out, recordHeaders, recordRows(results), nil)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&systemFlags, "system", "s", nil, "Restrict results to a system (repeatable)")
	return cmd
}

type systemAnswer struct {
	System     systems.ID `json:"system"`
	Name       string     `json:"name,omitempty"`
	Found      bool       `json:"found"`
	OpenVGDBID int        `json:"openvgdb_id,omitempty"`
}

func newSystemCommand(ctx *commandContext) *cobra.Command {
	var fileFlag string

	cmd := &cobra.Command{
		Use:   "system [md5]",
		Short: "Determine which system a ROM belongs to",
		Long: `Determine the system of a ROM from its MD5 hash. When the hash is unknown,
the file name extension decides; extensions shared by several systems are
resolved with a file name search.

Examples:
  romlookup system F73D2D0EFF548E8FC66996F27ACF2B4B
  romlookup system --file "Sonic CD (USA).cue"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var md5 string
			if len(args) > 0 {
				md5 = strings.TrimSpace(args[0])
			}
			file := strings.TrimSpace(fileFlag)
			if md5 == "" && file == "" {
				return errors.New("provide an MD5 hash, --file, or both")
			}

			return ctx.withFacade(cmd, func(qctx context.Context, facade *lookup.Facade) error {
				id, ok, err := facade.SystemIdentifier(qctx, md5, file)
				if err != nil {
					return err
				}
				answer := systemAnswer{System: id, Found: ok}
				if ok {
					if info, known := systems.Lookup(id); known {
						answer.Name = info.Name
						answer.OpenVGDBID = info.OpenVGDB
					}
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, answer)
				}
				out := cmd.OutOrStdout()
				if !ok {
					fmt.Fprintln(out, "System could not be determined")
					return nil
				}
				fmt.Fprintf(out, "%s (%s)\n", answer.System, answer.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "ROM file name used when the hash is unknown")
	return cmd
}

func parseSystemFlag(value string) (systems.ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return systems.Unknown, nil
	}
	id, ok := systems.Parse(value)
	if !ok {
		return systems.Unknown, fmt.Errorf("unknown system %q (see `romlookup systems`)", value)
	}
	return id, nil
}

func parseSystemFlags(values []string) ([]systems.ID, error) {
	var ids []systems.ID
	for _, value := range values {
		id, err := parseSystemFlag(value)
		if err != nil {
			return nil, err
		}
		if id != systems.Unknown {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
