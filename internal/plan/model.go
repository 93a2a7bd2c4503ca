package plan

// NodeType is the kind of work item a node represents.
type NodeType string

const (
	TypeOutcome     NodeType = "outcome"
	TypeDeliverable NodeType = "deliverable"
	TypeMilestone   NodeType = "milestone"
	TypeTask        NodeType = "task"
	TypeCheck       NodeType = "check"
)

// NodeTypes lists every valid node type in display order.
var NodeTypes = []NodeType{TypeOutcome, TypeDeliverable, TypeMilestone, TypeTask, TypeCheck}

// ValidType reports whether s names one of the fixed node types.
func ValidType(s string) bool {
	for _, t := range NodeTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Document is a plan as loaded from disk, before validation. Fields keep
// whatever shape the file had so that validation and lint can report on it.
type Document struct {
	File          string
	SchemaVersion any
	Nodes         any
	RootIDs       any
}

// NodeList returns the raw node records when Nodes is a sequence.
func (d *Document) NodeList() ([]any, bool) {
	nodes, ok := d.Nodes.([]any)
	return nodes, ok
}

// Node is a validated work item.
type Node struct {
	ID               string
	Type             NodeType
	Title            string
	DefinitionOfDone []string
	DependsOn        []string
	Owner            *string
	EstimateHours    *float64
	Priority         *int
}

// Edge records that NodeID depends on DependsOn.
type Edge struct {
	NodeID    string
	DependsOn string
}

// Graph is the validated, read-only projection of a Document.
type Graph struct {
	SchemaVersion string
	Nodes         map[string]Node
	IDs           []string // accepted ids in document order
	Edges         []Edge
	Roots         []string
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}
