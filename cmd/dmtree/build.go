package main

import (
	"fmt"
	"log/slog"

	"github.com/Watermelon914/SpacemanDMM/internal/builtins"
	"github.com/Watermelon914/SpacemanDMM/internal/consteval"
	"github.com/Watermelon914/SpacemanDMM/internal/diagnostics"
	"github.com/Watermelon914/SpacemanDMM/internal/listing"
	"github.com/Watermelon914/SpacemanDMM/internal/objtree"
)

// buildTree loads the builtins plus every listing file, finalizes, and
// returns the tree with its diagnostics context.
func buildTree(listings []string, sloppy bool) (*objtree.ObjectTree, *diagnostics.Context, error) {
	tree := objtree.New()
	if err := builtins.Register(tree); err != nil {
		return nil, nil, fmt.Errorf("load builtins: %w", err)
	}

	ctx := diagnostics.NewContext()
	for _, path := range listings {
		n, err := listing.LoadFile(path, tree, ctx)
		if err != nil {
			return nil, nil, err
		}
		slog.Debug("loaded listing", "path", path, "declarations", n)
	}

	tree.Finalize(ctx, consteval.New(), sloppy)
	ctx.Sort()
	return tree, ctx, nil
}
