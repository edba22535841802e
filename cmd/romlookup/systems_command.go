package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"romlookup/internal/systems"
)

type systemListing struct {
	ID           systems.ID `json:"id"`
	ShortName    string     `json:"short_name"`
	Name         string     `json:"name"`
	Manufacturer string     `json:"manufacturer"`
	Extensions   []string   `json:"extensions"`
	OpenVGDBID   int        `json:"openvgdb_id,omitempty"`
}

func newSystemsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "systems",
		Short:       "List supported systems and the names accepted by --system",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listing := listSystems()
			if ctx.jsonOutput() {
				return writeJSON(cmd, listing)
			}

			rows := make([][]string, 0, len(listing))
			for _, s := range listing {
				openvgdb := ""
				if s.OpenVGDBID > 0 {
					openvgdb = strconv.Itoa(s.OpenVGDBID)
				}
				rows = append(rows, []string{
					string(s.ID),
					s.ShortName,
					s.Name,
					s.Manufacturer,
					strings.Join(s.Extensions, " "),
					openvgdb,
				})
			}
			writeRows(cmd.OutOrStdout(),
				[]string{"ID", "Short", "Name", "Manufacturer", "Extensions", "OpenVGDB"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight})
			return nil
		},
	}
}

func listSystems() []systemListing {
	// NoLower keeps acronyms such as NEC and SNK intact.
	title := cases.Title(language.English, cases.NoLower)
	all := systems.All()
	out := make([]systemListing, 0, len(all))
	for _, info := range all {
		out = append(out, systemListing{
			ID:           info.ID,
			ShortName:    info.ShortName,
			Name:         info.Name,
			Manufacturer: title.String(info.Manufacturer),
			Extensions:   info.Extensions,
			OpenVGDBID:   info.OpenVGDB,
		})
	}
	return out
}
