package policy

import "fmt"

// Category classifies how a policy is presented. It is orthogonal to
// capabilities: a category says nothing about what the policy does, only
// what kind of control renders it.
type Category int

const (
	// CategoryToggle is a simple on/off policy.
	CategoryToggle Category = iota

	// CategoryConfigurableToggle is an on/off policy with additional
	// configuration beyond the enabled flag.
	CategoryConfigurableToggle

	categoryCount // sentinel, keep last
)

var categoryNames = [categoryCount]string{
	CategoryToggle:             "toggle",
	CategoryConfigurableToggle: "configurable_toggle",
}

// String returns the stable name of the category.
func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Valid reports whether c is a declared category value.
func (c Category) Valid() bool {
	return c >= 0 && c < categoryCount
}

// ParseCategory resolves a category from its stable name.
func ParseCategory(name string) (Category, bool) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}
	return 0, false
}

// Categories returns every category value in declaration order.
func Categories() []Category {
	categories := make([]Category, categoryCount)
	for i := range categories {
		categories[i] = Category(i)
	}
	return categories
}
