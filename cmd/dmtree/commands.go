package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Watermelon914/SpacemanDMM/internal/objtree"
)

func dumpCmd() *cobra.Command {
	var showBuiltins bool

	cmd := &cobra.Command{
		Use:   "dump <listing>...",
		Short: "Print the object tree with vars and procs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, ctx, err := buildTree(args, false)
			if err != nil {
				return err
			}
			tree.Root().Recurse(func(ref objtree.TypeRef) {
				node := ref.Get()
				if !showBuiltins && node.Location.IsBuiltin() && !ref.IsRoot() {
					return
				}
				printType(cmd, ref)
			})
			ctx.PrintAll(cmd.ErrOrStderr())
			return nil
		},
	}
	cmd.Flags().BoolVar(&showBuiltins, "builtins", false, "include builtin types in the dump")
	return cmd
}

func printType(cmd *cobra.Command, ref objtree.TypeRef) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ref.PrettyPath())
	if parent, ok := ref.ParentType(); ok {
		fmt.Fprintf(out, "  parent_type = %s\n", parent.PrettyPath())
	}
	ref.Get().Vars.Each(func(name string, typeVar *objtree.TypeVar) bool {
		kind := "override"
		if typeVar.Declaration != nil {
			kind = typeVar.Declaration.VarType.String()
		}
		if typeVar.Value.Constant != nil {
			fmt.Fprintf(out, "  %s/%s = %s\n", kind, name, typeVar.Value.Constant)
		} else {
			fmt.Fprintf(out, "  %s/%s\n", kind, name)
		}
		return true
	})
	ref.IterSelfProcs(func(proc objtree.ProcRef) {
		params := make([]string, len(proc.Get().Parameters))
		for i, p := range proc.Get().Parameters {
			params[i] = p.String()
		}
		fmt.Fprintf(out, "  proc/%s(%s)\n", proc.Name(), strings.Join(params, ", "))
	})
}

func typesCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "types <listing>...",
		Short: "List registered type paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, _, err := buildTree(args, true)
			if err != nil {
				return err
			}
			if filter != "" {
				if !doublestar.ValidatePattern(filter) {
					return fmt.Errorf("bad filter pattern %q", filter)
				}
			}
			for _, path := range tree.Paths() {
				if filter != "" {
					ok, err := doublestar.Match(filter, path)
					if err != nil {
						return err
					}
					if !ok {
						continue
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "doublestar glob over type paths, e.g. '/obj/**'")
	return cmd
}

func checkCmd() *cobra.Command {
	var sloppy bool

	cmd := &cobra.Command{
		Use:   "check <listing>...",
		Short: "Build and finalize, reporting diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, ctx, err := buildTree(args, sloppy)
			if err != nil {
				return err
			}
			ctx.PrintAll(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "%d types, %d errors\n",
				len(tree.Paths()), ctx.ErrorCount())
			if ctx.HasErrors() {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sloppy, "sloppy", false, "continue past unresolvable constants")
	return cmd
}

func watchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <listing>...",
		Short: "Rebuild and re-check whenever a listing changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()
			for _, path := range args {
				if err := watcher.Add(path); err != nil {
					return fmt.Errorf("watch %s: %w", path, err)
				}
			}

			report := func() {
				_, ctx, err := buildTree(args, true)
				if err != nil {
					slog.Error("rebuild failed", "error", err)
					return
				}
				ctx.PrintAll(cmd.OutOrStdout())
				fmt.Fprintf(cmd.OutOrStdout(), "%d errors\n", ctx.ErrorCount())
			}
			report()

			var timer *time.Timer
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
						continue
					}
					// Editors fire several events per save; debounce.
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, report)
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					slog.Warn("watch error", "error", err)
				}
			}
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "delay before rebuilding after a change")
	return cmd
}
