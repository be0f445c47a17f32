package main

import (
	"context"
	"fmt"
	"io"

	"github.com/opensilex/phis/pkg/domain/registry"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/shacl"
	"github.com/spf13/cobra"
)

func newSHACLCommand(flags *rootFlags) *cobra.Command {
	group := &cobra.Command{
		Use:   "shacl",
		Short: "manage SHACL shapes validating resources in the triplestore",
	}

	printOnly := false
	enable := &cobra.Command{
		Use:   "enable",
		Short: "load shapes of all resource types into the repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if printOnly {
				fmt.Fprint(cmd.OutOrStdout(), shacl.Generate(registry.Indexes()...))
				return nil
			}
			svc, err := flags.triplestore()
			if err != nil {
				return err
			}
			return shacl.Enable(cmd.Context(), svc, registry.Indexes()...)
		},
	}
	enable.Flags().BoolVar(&printOnly, "print", false, "print shapes as turtle, without loading them")

	disable := &cobra.Command{
		Use:   "disable",
		Short: "remove all shapes from the repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := flags.triplestore()
			if err != nil {
				return err
			}
			return shacl.Disable(cmd.Context(), svc)
		},
	}

	group.AddCommand(enable, disable)
	return group
}

func newGraphCommand(flags *rootFlags) *cobra.Command {
	group := &cobra.Command{
		Use:   "graph",
		Short: "manage named graphs of the triplestore",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "print graphs where resources are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := flags.triplestore()
			if err != nil {
				return err
			}
			for _, name := range registry.GraphNames() {
				fmt.Fprintln(cmd.OutOrStdout(), svc.Graph(name))
			}
			return nil
		},
	}

	yes := false
	clearGraphs := &cobra.Command{
		Use:   "clear [graph name...]",
		Short: "remove all triples of graphs. without names, all graphs of resources are cleared",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("clearing graphs can not be undone. pass --yes to proceed")
			}
			svc, err := flags.triplestore()
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				names = registry.GraphNames()
			}
			for _, name := range names {
				g := svc.Graph(name)
				if err := svc.ClearGraph(cmd.Context(), g); err != nil {
					return fmt.Errorf("clearing %s: %w", g, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", g)
			}
			return nil
		},
	}
	clearGraphs.Flags().BoolVar(&yes, "yes", false, "confirm clearing")

	rename := &cobra.Command{
		Use:   "rename <from> <to>",
		Short: "move all triples of a graph into another one. content of the destination is replaced",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.triplestore()
			if err != nil {
				return err
			}
			return renameGraph(cmd.Context(), svc, cmd.OutOrStdout(), args[0], args[1])
		},
	}

	dump := &cobra.Command{
		Use:   "dump <graph name>",
		Short: "print all triples of a graph as N-Triples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.triplestore()
			if err != nil {
				return err
			}
			return dumpGraph(cmd.Context(), svc, cmd.OutOrStdout(), args[0])
		},
	}

	group.AddCommand(list, clearGraphs, rename, dump)
	return group
}

// renameGraph moves graph "from" to "to". Names are resolved against the base uri.
func renameGraph(ctx context.Context, svc *sparql.Service, out io.Writer, from, to string) error {
	f, t := svc.Graph(from), svc.Graph(to)
	if f == t {
		return fmt.Errorf("source and destination are the same graph: %s", f)
	}
	if err := svc.RenameGraph(ctx, f, t); err != nil {
		return fmt.Errorf("moving %s to %s: %w", f, t, err)
	}
	fmt.Fprintf(out, "moved %s to %s\n", f, t)
	return nil
}

func dumpGraph(ctx context.Context, svc *sparql.Service, out io.Writer, name string) error {
	sts, err := svc.GraphStatements(ctx, svc.Graph(name))
	if err != nil {
		return err
	}
	for _, st := range sts {
		if _, err := fmt.Fprintln(out, st.String()); err != nil {
			return err
		}
	}
	return nil
}
