package app

import (
	"github.com/pterm/pterm"

	"skelgen/internal/tree"
)

// renderTree рисует описание так, как оно ляжет на диск относительно base.
// Узлы с пустым именем растворяются в родителе.
func renderTree(base string, root tree.Node) (string, error) {
	top := pterm.TreeNode{Text: base, Children: treeNodes(root)}
	return pterm.DefaultTree.WithRoot(top).Srender()
}

func treeNodes(n tree.Node) []pterm.TreeNode {
	var kids []pterm.TreeNode
	switch v := n.(type) {
	case *tree.Directory:
		for _, c := range v.Children {
			kids = append(kids, treeNodes(c)...)
		}
	case *tree.FileList:
		for _, f := range v.Files {
			kids = append(kids, pterm.TreeNode{Text: f})
		}
	}

	if n.NodeName() == "" {
		return kids
	}
	return []pterm.TreeNode{{Text: n.NodeName() + "/", Children: kids}}
}
