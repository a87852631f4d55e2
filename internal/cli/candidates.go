package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/lineage"
)

func newCandidatesCmd(a *app) *cobra.Command {
	var input, bird, role, query string
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List the birds that may be assigned as father or mother",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := lineage.ParseRole(role)
			if err != nil {
				return err
			}
			gender, err := lineage.RoleGender(r)
			if err != nil {
				return err
			}
			ex, err := readExport(input)
			if err != nil {
				return err
			}
			subject, err := ex.find(bird)
			if err != nil {
				return err
			}

			found := lineage.Search(lineage.Candidates(ex.Birds, subject.ID, gender), query)
			a.log.Debug("candidates filtered", zap.String("role", string(r)), zap.Int("found", len(found)))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tRING")
			for _, b := range found {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", b.ID, b.Name, b.RingNumber)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "registry export (JSON)")
	cmd.Flags().StringVarP(&bird, "bird", "b", "", "bird id or ring number")
	cmd.Flags().StringVarP(&role, "role", "r", "father", "father or mother")
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by name or ring number")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("bird")
	return cmd
}
