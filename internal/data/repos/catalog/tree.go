package catalog

// TreeNode is one level of an entity hierarchy assembled from an uploaded
// dataset, before it is persisted with materialized paths.
type TreeNode struct {
	Name     string
	Children []TreeNode
}

// PathSeparator joins parent and child names into the dotted keys used to
// relate sourcing rows back to their tree entities.
const PathSeparator = "."
