package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/querystudy/dialect"
	"github.com/Konsultn-Engineering/querystudy/query"
	"github.com/Konsultn-Engineering/querystudy/visitor"
)

type sqlOutput struct {
	Dialect string `json:"dialect"`
	SQL     string `json:"sql"`
	Args    []any  `json:"args"`
	Inline  string `json:"inline,omitempty"`
}

// NewSQLCommand prints the statement a search would run, without a
// database.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &searchFlags{}
	var dialectName string
	var inline bool

	cmd := &cobra.Command{
		Use:     "sql",
		Short:   "Print the SQL and arguments of a member search",
		Example: `  querystudy sql --dialect postgres --username member1 --age-goe 10`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dialect.For(dialectName)
			if err != nil {
				return err
			}
			sb := flags.builder(cmd.Flags())
			sql, sqlArgs, err := query.ToSQL(d, sb)
			if err != nil {
				return err
			}
			out := sqlOutput{Dialect: d.Name(), SQL: sql, Args: sqlArgs}
			if inline {
				node, err := sb.Build()
				if err != nil {
					return err
				}
				if out.Inline, err = visitor.Inline(d, node); err != nil {
					return err
				}
			}
			return writeSQL(cmd, rootOpts.Format, out)
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&dialectName, "dialect", "d", "postgres", "postgres|mysql|tidb|sqlite")
	cmd.Flags().BoolVar(&inline, "inline", false, "also print the statement with literals inlined")
	return cmd
}

func writeSQL(cmd *cobra.Command, format string, out sqlOutput) error {
	w := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	fmt.Fprintln(w, out.SQL)
	fmt.Fprintf(w, "-- args: %v\n", out.Args)
	if out.Inline != "" {
		fmt.Fprintf(w, "-- inline: %s\n", out.Inline)
	}
	return nil
}
