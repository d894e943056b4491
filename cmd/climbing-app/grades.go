package main

import (
	"climblog/climbing-app/internal/domain"
	"climblog/climbing-app/internal/grade"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	gradesType   string
	gradesFrench bool
)

var gradesCmd = &cobra.Command{
	Use:   "grades [grade]",
	Short: "Print a grade table or convert a single grade",
	Long: `Without an argument, prints the conversion table for --type.

With a grade, converts it: a canonical grade (V-scale or YDS) is printed in
French notation, or with --french a French grade is printed in canonical notation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGrades,
}

func init() {
	gradesCmd.Flags().StringVar(&gradesType, "type", string(domain.ClimbTypeBoulder), "climb type: Boulder, Top Rope or Lead")
	gradesCmd.Flags().BoolVar(&gradesFrench, "french", false, "the given grade is in French notation")
}

func runGrades(cmd *cobra.Command, args []string) error {
	climbType := domain.ClimbType(gradesType)
	if !climbType.Valid() {
		return fmt.Errorf("unknown climb type %q", gradesType)
	}
	table := grade.For(climbType)
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "RANK\tCANONICAL\tFRENCH\n")
		for i, p := range table.Pairs() {
			fmt.Fprintf(w, "%d\t%s\t%s\n", i, p.Canonical, p.French)
		}
		return w.Flush()
	}

	if gradesFrench {
		canonical, ok := table.Canonical(args[0])
		if !ok {
			return fmt.Errorf("%q is not a French %s grade", args[0], table.Name())
		}
		fmt.Fprintln(out, canonical)
		return nil
	}
	french, ok := table.French(args[0])
	if !ok {
		return fmt.Errorf("%q is not a %s grade", args[0], table.Name())
	}
	fmt.Fprintln(out, french)
	return nil
}
