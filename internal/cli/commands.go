package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tuannm99/novanode/internal/btree"
)

type placement struct {
	root   bool
	parent uint64
}

func (p *placement) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&p.root, "root", false, "store the node as the tree root")
	cmd.Flags().Uint64Var(&p.parent, "parent", 0, "offset of the parent page (non-root nodes)")
	cmd.MarkFlagsMutuallyExclusive("root", "parent")
}

// node wraps t as root or as a child; a non-root node without --parent is
// left parentless so the codec reports it.
func (p *placement) node(cmd *cobra.Command, t btree.NodeType) btree.Node {
	if p.root {
		return btree.NewRootNode(t)
	}
	if cmd.Flags().Changed("parent") {
		return btree.NewChildNode(t, btree.Offset(p.parent))
	}
	return btree.NewNode(t, false, nil)
}

func parseOffset(s string) (btree.Offset, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: %w", s, err)
	}
	return btree.Offset(v), nil
}

func parsePairs(args []string) ([]btree.KeyValuePair, error) {
	pairs := make([]btree.KeyValuePair, 0, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q: want key=value", a)
		}
		pairs = append(pairs, btree.NewKeyValuePair(k, v))
	}
	return pairs, nil
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the page file and its meta file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(func(s *btree.NodeStore) error {
				m := s.Meta()
				fmt.Fprintf(cmd.OutOrStdout(), "store %s at %s (page=%d ptr=%d key=%d value=%d)\n",
					m.StoreID, opts.cfg.DataPath(), m.PageSize, m.PtrSize, m.KeySize, m.ValueSize)
				return nil
			})
		},
	}
}

func newPutLeafCmd(opts *rootOptions) *cobra.Command {
	var p placement
	cmd := &cobra.Command{
		Use:   "put-leaf <offset> [key=value...]",
		Short: "Write a leaf node at offset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			off, err := parseOffset(args[0])
			if err != nil {
				return err
			}
			pairs, err := parsePairs(args[1:])
			if err != nil {
				return err
			}
			n := p.node(cmd, &btree.Leaf{Pairs: pairs})
			return opts.withStore(func(s *btree.NodeStore) error {
				if err := s.WriteNode(off, n); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s at %s\n", n, off)
				return nil
			})
		},
	}
	p.bind(cmd)
	return cmd
}

func newPutInternalCmd(opts *rootOptions) *cobra.Command {
	var (
		p        placement
		children []string
		keys     []string
	)
	cmd := &cobra.Command{
		Use:   "put-internal <offset> --child N... --key K...",
		Short: "Write an internal node at offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			off, err := parseOffset(args[0])
			if err != nil {
				return err
			}
			if len(children) == 0 && len(keys) > 0 {
				return fmt.Errorf("%d keys given without children", len(keys))
			}
			if len(children) > 0 && len(children) != len(keys)+1 {
				return fmt.Errorf("%d children need %d keys, got %d", len(children), len(children)-1, len(keys))
			}

			t := &btree.Internal{
				Children: make([]btree.Offset, 0, len(children)),
				Keys:     make([]btree.Key, 0, len(keys)),
			}
			for _, c := range children {
				child, err := parseOffset(c)
				if err != nil {
					return fmt.Errorf("--child: %w", err)
				}
				t.Children = append(t.Children, child)
			}
			for _, k := range keys {
				t.Keys = append(t.Keys, btree.Key(k))
			}

			n := p.node(cmd, t)
			return opts.withStore(func(s *btree.NodeStore) error {
				if err := s.WriteNode(off, n); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s at %s\n", n, off)
				return nil
			})
		},
	}
	p.bind(cmd)
	cmd.Flags().StringArrayVar(&children, "child", nil, "child page offset, repeatable")
	cmd.Flags().StringArrayVar(&keys, "key", nil, "separator key, repeatable")
	return cmd
}

func newAppendLeafCmd(opts *rootOptions) *cobra.Command {
	var p placement
	cmd := &cobra.Command{
		Use:   "append-leaf [key=value...]",
		Short: "Write a leaf node at a new offset and print the offset",
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := parsePairs(args)
			if err != nil {
				return err
			}
			n := p.node(cmd, &btree.Leaf{Pairs: pairs})
			return opts.withStore(func(s *btree.NodeStore) error {
				off, err := s.AppendNode(n)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), uint64(off))
				return nil
			})
		},
	}
	p.bind(cmd)
	return cmd
}

func newDumpCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <offset>",
		Short: "Decode and print the node at offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			off, err := parseOffset(args[0])
			if err != nil {
				return err
			}
			return opts.withExistingStore(func(s *btree.NodeStore) error {
				n, err := s.ReadNode(off)
				if err != nil {
					return err
				}
				printNode(cmd, off, n)
				return nil
			})
		},
	}
}

func printNode(cmd *cobra.Command, off btree.Offset, n btree.Node) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "offset: %d\n", uint64(off))
	fmt.Fprintf(w, "root:   %t\n", n.IsRoot)
	if p, ok := n.ParentOffset(); ok {
		fmt.Fprintf(w, "parent: %d\n", uint64(p))
	}
	fmt.Fprintf(w, "type:   %s\n", n.Type)

	switch t := n.Type.(type) {
	case *btree.Internal:
		for i, c := range t.Children {
			fmt.Fprintf(w, "  child[%d] = %d\n", i, uint64(c))
			if i < len(t.Keys) {
				fmt.Fprintf(w, "  key[%d]   = %q\n", i, string(t.Keys[i]))
			}
		}
	case *btree.Leaf:
		for _, kv := range t.Pairs {
			fmt.Fprintf(w, "  %q = %q\n", kv.Key, kv.Value)
		}
	}
}

func newHexdumpCmd(opts *rootOptions) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "hexdump <offset>",
		Short: "Print the raw bytes of the page at offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			off, err := parseOffset(args[0])
			if err != nil {
				return err
			}
			return opts.withExistingStore(func(s *btree.NodeStore) error {
				page, err := s.ReadPage(off)
				if err != nil {
					return err
				}
				return page.DumpHex(cmd.OutOrStdout(), n)
			})
		},
	}
	cmd.Flags().IntVar(&n, "bytes", 64, "number of bytes to print (0 for the whole page)")
	return cmd
}
