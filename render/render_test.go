package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/mvkdcrypto/treeview/api"
	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	datadriven.RunTest(t, "testdata/text", func(t *testing.T, d *datadriven.TestData) string {
		switch d.Cmd {
		case "render":
			var variant string
			d.ScanArgs(t, "variant", &variant)
			opts := snapshot.Options{Variant: snapshot.ParseVariant(variant)}
			if d.HasArg("target") {
				var target int
				d.ScanArgs(t, "target", &target)
				opts.Target = snapshot.TargetOf(int64(target))
			}
			var nodes []snapshot.NodeRecord
			if err := api.Decode(&nodes, []byte(d.Input)); err != nil {
				t.Fatalf("bad input: %v", err)
			}
			root, err := snapshot.Decode(nodes, opts)
			if err != nil {
				return fmt.Sprintf("error: %v\n", err)
			}
			return Text(TreeView(root))
		default:
			t.Fatalf("unknown command %q", d.Cmd)
			return ""
		}
	})
}

func scenarioRoot(t *testing.T, target *int64) *snapshot.VisualNode {
	root, err := snapshot.Decode([]snapshot.NodeRecord{
		{Key: 5, Left: 1, Right: 2},
		snapshot.Leaf(3),
		snapshot.Leaf(8),
	}, snapshot.Options{Variant: snapshot.VariantBinary, Target: target})
	require.NoError(t, err)
	return root
}

func TestViewHTML(t *testing.T) {
	out, err := ViewHTML(TreeView(scenarioRoot(t, snapshot.TargetOf(3))))
	require.NoError(t, err)
	require.Equal(t,
		`<div class="tree-container"><div class="tree-node"><div class="node-value">5</div>`+
			`<div class="node-children">`+
			`<div class="child-branch left-branch"><div class="tree-node"><div class="node-value highlight">3</div></div></div>`+
			`<div class="child-branch right-branch"><div class="tree-node"><div class="node-value">8</div></div></div>`+
			`</div></div></div>`, out)
}

func TestViewHTMLLoneRightChild(t *testing.T) {
	root, err := snapshot.Decode([]snapshot.NodeRecord{
		{Key: 1, Left: snapshot.Absent, Right: 1, Color: "black"},
		{Key: 2, Left: snapshot.Absent, Right: snapshot.Absent, Color: "red"},
	}, snapshot.Options{Variant: snapshot.VariantRedBlack})
	require.NoError(t, err)
	out, err := ViewHTML(TreeView(root))
	require.NoError(t, err)
	require.Contains(t, out, `<div class="child-branch left-branch"></div>`)
	require.Contains(t, out, `<div class="node-value black-node">1</div>`)
	require.Contains(t, out, `<div class="node-value red-node">2</div>`)
}

func TestPlaceholders(t *testing.T) {
	for _, text := range []string{NoTrees, SelectTree, TreeEmpty, LoadError} {
		out, err := ViewHTML(PlaceholderView(text))
		require.NoError(t, err)
		require.Equal(t, text, out)
		require.Equal(t, text+"\n", Text(PlaceholderView(text)))
	}
	require.True(t, TreeView(nil).IsPlaceholder())
	require.Equal(t, TreeEmpty, TreeView(nil).Placeholder)
}

func TestListHTML(t *testing.T) {
	out, err := ListHTML(nil, "")
	require.NoError(t, err)
	require.Equal(t, NoTrees, out)

	out, err = ListHTML([]api.TreeHandle{
		{ID: "1", Type: snapshot.VariantBinary},
		{ID: "2", Type: snapshot.VariantRedBlack},
	}, "2")
	require.NoError(t, err)
	require.Equal(t,
		`<div class="tree-item" data-id="1">binary (1)</div>`+
			`<div class="tree-item selected" data-id="2">red_black (2)</div>`, out)
}

func TestBannerHTML(t *testing.T) {
	out, err := BannerHTML(true, "Found 3 in the tree!")
	require.NoError(t, err)
	require.Equal(t, `<div class="search-result search-found">Found 3 in the tree!</div>`, out)

	out, err = BannerHTML(false, "Value <99> not found in the tree.")
	require.NoError(t, err)
	require.True(t, strings.Contains(out, "search-not-found"))
	require.Contains(t, out, "&lt;99&gt;")
}
