package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/guptarohit/asciigraph"
	"github.com/mvkdcrypto/treeview/client"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/render"
	"github.com/mvkdcrypto/treeview/session"
	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ctlT holds the global flags and builds one session per invocation.
type ctlT struct {
	Root *cobra.Command

	serviceURL string
	timeout    time.Duration
	debug      bool
	assumeYes  bool
	search     string
	dump       bool

	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
	// newService is replaced in tests.
	newService func(cfg client.Config) session.Service
}

func newCtl(stdout, stderr io.Writer, stdin io.Reader) *ctlT {
	c := &ctlT{
		stdout: stdout,
		stderr: stderr,
		stdin:  stdin,
		newService: func(cfg client.Config) session.Service {
			return client.New(cfg)
		},
	}
	c.Root = &cobra.Command{
		Use:           "treectl",
		Short:         "inspect and edit trees hosted by a tree service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.Root.PersistentFlags().StringVar(&c.serviceURL, "service", "http://localhost:3030", "tree service base url")
	c.Root.PersistentFlags().DurationVar(&c.timeout, "timeout", 10*time.Second, "per-request timeout")
	c.Root.PersistentFlags().BoolVar(&c.debug, "debug", false, "log requests")

	list := &cobra.Command{
		Use:   "list",
		Short: "list trees",
		Args:  cobra.NoArgs,
		RunE:  c.runList,
	}
	create := &cobra.Command{
		Use:   "create <variant>",
		Short: "create a tree (binary, red_black or splay) and print it",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runCreate,
	}
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "print a tree",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runShow,
	}
	show.Flags().StringVar(&c.search, "search", "", "highlight this value")
	show.Flags().BoolVar(&c.dump, "dump", false, "also dump the raw snapshot")
	insert := &cobra.Command{
		Use:   "insert <id> <value>...",
		Short: "insert values and print the tree",
		Args:  cobra.MinimumNArgs(2),
		RunE:  c.mutation((*session.Session).Insert),
	}
	remove := &cobra.Command{
		Use:   "remove <id> <value>...",
		Short: "remove values and print the tree",
		Args:  cobra.MinimumNArgs(2),
		RunE:  c.mutation((*session.Session).Remove),
	}
	search := &cobra.Command{
		Use:   "search <id> <value>",
		Short: "search a value and print the tree with matches highlighted",
		Args:  cobra.ExactArgs(2),
		RunE:  c.runSearch,
	}
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "delete a tree",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runDelete,
	}
	del.Flags().BoolVarP(&c.assumeYes, "yes", "y", false, "do not ask for confirmation")
	stats := &cobra.Command{
		Use:   "stats <id>",
		Short: "print size, height and a nodes-per-depth plot",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runStats,
	}

	c.Root.AddCommand(list, create, show, insert, remove, search, del, stats)
	return c
}

func (c *ctlT) context() logger.ContextInterface {
	var l logger.Logger = logger.NewNull()
	if c.debug {
		l = logger.NewWithWriter("treectl", c.stderr, true)
	}
	return logger.NewContext(context.Background(), l)
}

func (c *ctlT) open() (*session.Session, *terminal, session.Service, error) {
	cfg, err := client.NewConfig(c.serviceURL, c.timeout)
	if err != nil {
		return nil, nil, nil, err
	}
	svc := c.newService(cfg)
	term := newTerminal(c.stdout, c.stderr, c.stdin, c.assumeYes)
	return session.New(svc, term), term, svc, nil
}

// selectTree opens a session with id selected. The tree list is loaded
// first so the variant comes from the service's list.
func (c *ctlT) selectTree(ctx logger.ContextInterface, id string) (*session.Session, *terminal, session.Service, error) {
	sess, term, svc, err := c.open()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := sess.ListTrees(ctx); err != nil {
		return nil, nil, nil, err
	}
	if err := sess.SelectTree(ctx, id); err != nil {
		return nil, nil, nil, err
	}
	return sess, term, svc, nil
}

func (c *ctlT) runList(cmd *cobra.Command, args []string) error {
	ctx := c.context()
	sess, term, _, err := c.open()
	if err != nil {
		return err
	}
	if err := sess.ListTrees(ctx); err != nil {
		return err
	}
	if len(term.handles) == 0 {
		fmt.Fprintln(c.stdout, render.NoTrees)
		return nil
	}
	tbl := tablewriter.NewWriter(c.stdout)
	tbl.SetHeader([]string{"ID", "Type"})
	for _, h := range term.handles {
		tbl.Append([]string{h.ID, string(h.Type)})
	}
	tbl.Render()
	return nil
}

func (c *ctlT) runCreate(cmd *cobra.Command, args []string) error {
	ctx := c.context()
	sess, term, _, err := c.open()
	if err != nil {
		return err
	}
	h, err := sess.CreateTree(ctx, snapshot.ParseVariant(args[0]))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "created %s\n", h)
	term.flush()
	return nil
}

func (c *ctlT) runShow(cmd *cobra.Command, args []string) error {
	ctx := c.context()
	sess, term, svc, err := c.selectTree(ctx, args[0])
	if err != nil {
		return err
	}
	if c.search != "" {
		if _, err := sess.Search(ctx, c.search); err != nil {
			return err
		}
	}
	term.flush()
	if c.dump {
		data, err := svc.FetchTree(ctx, args[0])
		if err != nil {
			return err
		}
		spew.Fdump(c.stdout, data)
	}
	return nil
}

func (c *ctlT) mutation(op func(s *session.Session, ctx logger.ContextInterface, raw string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := c.context()
		sess, term, _, err := c.selectTree(ctx, args[0])
		if err != nil {
			return err
		}
		for _, raw := range args[1:] {
			if err := op(sess, ctx, raw); err != nil {
				return err
			}
		}
		term.flush()
		return nil
	}
}

func (c *ctlT) runSearch(cmd *cobra.Command, args []string) error {
	ctx := c.context()
	sess, term, _, err := c.selectTree(ctx, args[0])
	if err != nil {
		return err
	}
	if _, err := sess.Search(ctx, args[1]); err != nil {
		return err
	}
	term.flush()
	return nil
}

func (c *ctlT) runDelete(cmd *cobra.Command, args []string) error {
	ctx := c.context()
	sess, _, _, err := c.selectTree(ctx, args[0])
	if err != nil {
		return err
	}
	if err := sess.DeleteTree(ctx); err != nil {
		if errors.Cause(err) == session.ErrNotConfirmed {
			fmt.Fprintln(c.stdout, "not deleted")
			return nil
		}
		return err
	}
	fmt.Fprintf(c.stdout, "deleted %s\n", args[0])
	return nil
}

func (c *ctlT) runStats(cmd *cobra.Command, args []string) error {
	ctx := c.context()
	_, _, svc, err := c.open()
	if err != nil {
		return err
	}
	data, err := svc.FetchTree(ctx, args[0])
	if err != nil {
		return err
	}
	root, err := snapshot.Decode(data.Nodes, snapshot.Options{Variant: snapshot.ParseVariant(data.Type)})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "size:   %d\n", root.Size())
	fmt.Fprintf(c.stdout, "height: %d\n", root.Height())
	counts := root.LevelCounts()
	if len(counts) < 2 {
		return nil
	}
	values := make([]float64, len(counts))
	for i, n := range counts {
		values[i] = float64(n)
	}
	fmt.Fprintln(c.stdout, asciigraph.Plot(values,
		asciigraph.Height(8),
		asciigraph.Caption("nodes per depth")))
	return nil
}

func main() {
	ctl := newCtl(os.Stdout, os.Stderr, os.Stdin)
	if err := ctl.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
