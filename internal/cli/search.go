package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Konsultn-Engineering/querystudy/engine"
	"github.com/Konsultn-Engineering/querystudy/entity"
	"github.com/Konsultn-Engineering/querystudy/query"
)

// searchFlags binds the member filters. Only flags given on the command
// line become conditions.
type searchFlags struct {
	username, teamName  string
	age, ageGoe, ageLoe int
	limit, offset       int
}

func (f *searchFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.username, "username", "", "match this username")
	fs.StringVar(&f.teamName, "team", "", "match members of this team")
	fs.IntVar(&f.age, "age", 0, "match this age")
	fs.IntVar(&f.ageGoe, "age-goe", 0, "match ages >= this")
	fs.IntVar(&f.ageLoe, "age-loe", 0, "match ages <= this")
	fs.IntVar(&f.limit, "limit", 0, "return at most this many members")
	fs.IntVar(&f.offset, "offset", 0, "skip this many members")
}

func (f *searchFlags) search(fs *pflag.FlagSet) entity.MemberSearch {
	var cond entity.MemberSearch
	if fs.Changed("username") {
		cond.Username = &f.username
	}
	if fs.Changed("team") {
		cond.TeamName = &f.teamName
	}
	if fs.Changed("age") {
		cond.Age = &f.age
	}
	if fs.Changed("age-goe") {
		cond.AgeGoe = &f.ageGoe
	}
	if fs.Changed("age-loe") {
		cond.AgeLoe = &f.ageLoe
	}
	return cond
}

func (f *searchFlags) builder(fs *pflag.FlagSet) *query.SelectBuilder {
	sb := entity.SearchQuery(f.search(fs))
	if fs.Changed("limit") {
		sb.Limit(f.limit)
	}
	if fs.Changed("offset") {
		sb.Offset(f.offset)
	}
	return sb
}

func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search members with optional filters",
		Example: `  querystudy search --username member1 --age 10
  querystudy search --team teamB --age-goe 35`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			s, err := openSession(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer s.Close()

			page, err := engine.FetchResults[entity.Member](ctx, s.Engine, flags.builder(cmd.Flags()))
			if err != nil {
				return err
			}
			return writeMembers(cmd.OutOrStdout(), rootOpts.Format, page)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func writeMembers(w io.Writer, format string, page engine.Page[entity.Member]) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tAGE\tTEAM")
	for _, m := range page.Content {
		team := "-"
		if m.TeamID != nil {
			team = fmt.Sprint(*m.TeamID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", m.ID, m.Username, m.Age, team)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d members\n", len(page.Content), page.Total)
	return err
}
