// Package types defines the shared data structures for the QuestScript
// interpreter. This package contains only type definitions — no logic,
// no methods beyond the node tag accessors.
package types

// NodeKind identifies the variant carried by a Node.
type NodeKind string

const (
	KindDialogue   NodeKind = "dialogue"
	KindChoice     NodeKind = "choice"
	KindImage      NodeKind = "image"
	KindItem       NodeKind = "item"
	KindTrigger    NodeKind = "trigger"
	KindCondition  NodeKind = "condition"
	KindCombat     NodeKind = "combat"
	KindLinkScript NodeKind = "link_script"
	KindEnd        NodeKind = "end"
)

// Script is one loaded quest script: nodes plus output-indexed connections.
// Immutable for the duration of one execution; a link transfer produces a
// fresh Script, never a mutation shared between two owners.
type Script struct {
	ID          string
	Nodes       []Node
	Connections []Connection
}

// Node is one step of a quest script. Data holds exactly one variant.
type Node struct {
	ID   string
	Data NodeData
}

// Kind returns the variant tag of the node's data.
func (n Node) Kind() NodeKind { return n.Data.Kind() }

// NodeData is the closed set of node variants. Each variant carries only
// the fields relevant to its type; the executor dispatches on the concrete
// type rather than on a string tag.
type NodeData interface {
	Kind() NodeKind
}

// Dialogue presents a line of text attributed to a speaker and waits for
// the player to advance.
type Dialogue struct {
	Speaker string
	Text    string
}

func (Dialogue) Kind() NodeKind { return KindDialogue }

// Choice presents a question with ordered options; the selected index is
// the output index followed.
type Choice struct {
	Question string
	Options  []string
}

func (Choice) Kind() NodeKind { return KindChoice }

// Image shows an image for a duration, then advances.
type Image struct {
	Path       string
	DurationMs int
}

func (Image) Kind() NodeKind { return KindImage }

// ItemAction is the direction of an inventory mutation.
type ItemAction string

const (
	ItemGive ItemAction = "give"
	ItemTake ItemAction = "take"
)

// Item gives or takes an item via the host inventory.
type Item struct {
	Action ItemAction
	ItemID string
	Amount int
}

func (Item) Kind() NodeKind { return KindItem }

// Trigger dispatches a named world event to the host and advances without
// suspending.
type Trigger struct {
	Event  string
	Params map[string]any
}

func (Trigger) Kind() NodeKind { return KindTrigger }

// CheckKind is the fixed vocabulary of condition checks.
type CheckKind string

const (
	CheckHasFlag CheckKind = "hasFlag"
	CheckHasItem CheckKind = "hasItem"
)

// Condition branches on a flag value or an inventory check.
// Output 0 is the true branch, output 1 the false branch.
type Condition struct {
	Check  CheckKind
	Target string
	Expect any // hasFlag: expected flag value; hasItem: required amount
}

func (Condition) Kind() NodeKind { return KindCondition }

// Opponent describes a combat encounter for the host battle subsystem.
// The interpreter treats it as opaque apart from template rewriting of
// the Character field.
type Opponent struct {
	Character string
	Name      string
	Health    int
	Attack    int
}

// Combat hands off to the host battle subsystem.
// Output 0 is victory, output 1 defeat.
type Combat struct {
	Opponent Opponent
}

func (Combat) Kind() NodeKind { return KindCombat }

// LinkScript transfers execution to another script.
type LinkScript struct {
	Target       string
	UseTemplates bool
}

func (LinkScript) Kind() NodeKind { return KindLinkScript }

// End terminates the script, invoking the completion callback if one is
// registered.
type End struct{}

func (End) Kind() NodeKind { return KindEnd }

// Connection is a directed, output-indexed edge. At most one connection may
// exist per (From, Output) pair.
type Connection struct {
	From   string
	Output int
	To     string
}

// ChoiceRecord is one entry of the ordered choice-tracking ledger.
type ChoiceRecord struct {
	NodeID   string
	Question string
	Selected int
}

// PlayerSnapshot is the host-supplied identity state the template table is
// built from. CompanionName is derived by the host, not the interpreter.
type PlayerSnapshot struct {
	Companion     string
	CompanionName string
	Race          string
}
