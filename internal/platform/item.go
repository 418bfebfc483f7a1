package platform

// InventorySize is the number of addressable held-item slots (0..35).
const InventorySize = 36

// Item is one stack in an inventory slot or menu cell. Tags carry opaque markers the hub
// uses to recognise its own placeholders.
type Item struct {
	Material Material          `json:"material"`
	Name     string            `json:"name,omitempty"`
	Lore     []string          `json:"lore,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// NewTaggedItem builds an item carrying a single presence tag.
func NewTaggedItem(mat Material, tag string) *Item {
	return &Item{
		Material: mat,
		Tags:     map[string]string{tag: "1"},
	}
}

// Tag returns the value stored under key.
func (it *Item) Tag(key string) (string, bool) {
	if it == nil || it.Tags == nil {
		return "", false
	}
	v, ok := it.Tags[key]
	return v, ok
}

// HasTag reports whether the item carries the presence marker key.
func (it *Item) HasTag(key string) bool {
	v, ok := it.Tag(key)
	return ok && v == "1"
}

// SetTag stores value under key.
func (it *Item) SetTag(key, value string) {
	if it.Tags == nil {
		it.Tags = map[string]string{}
	}
	it.Tags[key] = value
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	c := &Item{
		Material: it.Material,
		Name:     it.Name,
		Lore:     append([]string(nil), it.Lore...),
	}
	if it.Tags != nil {
		c.Tags = make(map[string]string, len(it.Tags))
		for k, v := range it.Tags {
			c.Tags[k] = v
		}
	}
	return c
}

// MenuKind identifies which hub menu a container view belongs to.
type MenuKind string

const (
	MenuKindHub       MenuKind = "hub"
	MenuKindCosmetics MenuKind = "cosmetics"
)

// Menu is a transient container view opened for one entity.
type Menu struct {
	Kind  MenuKind      `json:"kind"`
	Title string        `json:"title"`
	Size  int           `json:"size"`
	Items map[int]*Item `json:"items"`
}

// NewMenu returns an empty menu of the given size.
func NewMenu(kind MenuKind, title string, size int) *Menu {
	return &Menu{
		Kind:  kind,
		Title: title,
		Size:  size,
		Items: make(map[int]*Item, size),
	}
}
