package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/padconv/internal/sensor"
)

// ProfileSummary is one row of the profiles listing.
type ProfileSummary struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	AssetKey  string `json:"asset_key"`
	NewGroup  string `json:"new_group,omitempty"`
	Groups    int    `json:"groups"`
	TotalPads int    `json:"total_pads"`
	Default   bool   `json:"default"`
}

// GroupSummary is one group of a profile detail listing.
type GroupSummary struct {
	Name        string `json:"name"`
	SummaryKey  string `json:"summary_key"`
	SensorCount int    `json:"sensor_count"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Color       string `json:"color"`
}

// ProfileDetail is the output of "profiles <name>".
type ProfileDetail struct {
	ProfileSummary
	Groups []GroupSummary `json:"group_list"`
}

// ProfilesOptions holds flags for the profiles command.
type ProfilesOptions struct {
	*RootOptions
	ProfilesDir string
}

// NewProfilesCommand creates the profiles command.
func NewProfilesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfilesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "profiles [name]",
		Short: "List sensor pad profiles",
		Long: `List the available sensor pad profiles with their group counts and
contact point totals. With a name, list that profile's groups.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runProfileDetail(opts, args[0], cmd)
			}
			return runProfiles(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ProfilesDir, "profiles-dir", "", "directory of extra CUE profiles")
	return cmd
}

func summarize(p sensor.Profile) ProfileSummary {
	return ProfileSummary{
		Name:      p.Name,
		Title:     p.Title,
		AssetKey:  p.AssetKey,
		NewGroup:  p.NewGroup,
		Groups:    len(p.Groups),
		TotalPads: p.TotalPads(),
		Default:   p.Name == sensor.DefaultProfile,
	}
}

func runProfiles(opts *ProfilesOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	catalog, err := loadCatalog(opts.ProfilesDir)
	if err != nil {
		return formatter.report(ExitCommandError, profileLoadError(err))
	}

	var rows []ProfileSummary
	for _, p := range catalog.Profiles() {
		rows = append(rows, summarize(p))
	}

	if opts.Format == "json" {
		return formatter.Success(rows)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%-12s %7s %6s  %s\n", "PROFILE", "SENSORS", "PADS", "TITLE")
	for _, r := range rows {
		name := r.Name
		if r.Default {
			name += "*"
		}
		fmt.Fprintf(w, "%-12s %7d %6d  %s\n", name, r.Groups, r.TotalPads, r.Title)
	}
	return nil
}

func runProfileDetail(opts *ProfilesOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	p, cliErr := loadProfile(opts.ProfilesDir, name)
	if cliErr != nil {
		return formatter.report(ExitCommandError, cliErr)
	}

	detail := ProfileDetail{ProfileSummary: summarize(p)}
	for _, g := range p.Groups {
		detail.Groups = append(detail.Groups, GroupSummary{
			Name:        g.Name,
			SummaryKey:  g.SummaryKey(),
			SensorCount: g.SensorCount,
			Rows:        g.Rows(),
			Cols:        g.Cols(),
			Color:       g.Color,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(detail)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s: %s\n", p.Name, p.Title)
	fmt.Fprintf(w, "asset key: %s\n", p.AssetKey)
	fmt.Fprintf(w, "total: %d contact points across %d sensors\n\n", p.TotalPads(), len(p.Groups))
	for _, g := range detail.Groups {
		marker := " "
		if g.Name == p.NewGroup {
			marker = "+"
		}
		fmt.Fprintf(w, "%s %-24s %4d  %2dx%-2d  %s\n", marker, g.Name, g.SensorCount, g.Rows, g.Cols, g.Color)
	}
	return nil
}
