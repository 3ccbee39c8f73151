// Package core holds the board model and the reconciliation algorithm.
//
// A board is a two-level tree: an ordered list of containers (Trello lists),
// each holding an ordered list of items (Trello cards). The declarative side of
// the same tree is made of ContainerSpec and ItemSpec values whose labels carry
// the remote identifier in a "name (id)" suffix.
package core

// RemovalMarker is the leading character of an item label that asks for the
// identified item to be closed instead of renamed. EncodeLabel escapes it.
const RemovalMarker = "-"

// Board is a snapshot of the remote board. Only open containers and open items
// are part of it.
type Board struct {
	ID         string
	Name       string
	Containers []Container
}

// Container is a remote list. The order of Items is the item position.
type Container struct {
	ID    string
	Name  string
	Items []Item
}

// Item is a remote card.
type Item struct {
	ID      string
	Name    string
	Content string
}

// ContainerSpec is the desired state of one container.
type ContainerSpec struct {
	Label string
	Items []ItemSpec
}

// ItemSpec is the desired state of one item. It is either bare (a label only)
// or carries content; build it with BareItem or ItemWithContent.
type ItemSpec struct {
	Label   string
	Content string
}

// BareItem returns an ItemSpec without content. Its desired content is empty.
func BareItem(label string) ItemSpec {
	return ItemSpec{Label: label}
}

// ItemWithContent returns an ItemSpec carrying content.
func ItemWithContent(label, content string) ItemSpec {
	return ItemSpec{Label: label, Content: content}
}

// Operation names, shared by gateways, plans and errors.
const (
	OpFetch             = "fetch"
	OpCreateContainer   = "createContainer"
	OpCloseContainer    = "closeContainer"
	OpRenameContainer   = "renameContainer"
	OpCreateItem        = "createItem"
	OpCloseItem         = "closeItem"
	OpRenameItem        = "renameItem"
	OpUpdateItemContent = "updateItemContent"
	OpRepositionItem    = "repositionItem"
)
