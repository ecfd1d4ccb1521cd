package rule

//go:generate go tool stringer -type=Category -linecomment -output=category_string.go

// Category is the kind of customization a rule declares. Each category is
// resolved by its own selector map.
type Category int

const (
	_                 Category = iota
	Ignore                     // ignore
	Nullable                   // nullable
	Generate                   // generate, set or supply
	Subtype                    // subtype
	AssignOrigin               // assignment origin
	AssignDestination          // assign
	OnComplete                 // on complete
	Filter                     // filter
	Feed                       // feed
	SetModel                   // set model

	// CategoryTotal is a constant that represents the total number of categories defined
	CategoryTotal = int(iota)
)

// Categories lists every category in resolution order.
func Categories() []Category {
	out := make([]Category, 0, CategoryTotal-1)
	for c := Ignore; int(c) < CategoryTotal; c++ {
		out = append(out, c)
	}

	return out
}
