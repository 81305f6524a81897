package models

// Category is a top-level WBS category with its allowed subcategories.
type Category struct {
	Name          string
	Subcategories []string
}

// Unexported so the tables can only be read through copying accessors.
var wbsTaxonomy = [...]struct {
	name string
	subs []string
}{
	{"Labor", []string{"Direct Labor", "Indirect Labor", "Overtime"}},
	{"Materials", []string{"Raw Materials", "Supplies", "Equipment"}},
	{"Services", []string{"Consulting", "Training", "Maintenance"}},
	{"Travel", []string{"Airfare", "Lodging", "Per Diem"}},
	{"Other", []string{"Miscellaneous", "Contingency"}},
}

var vendorNames = [...]string{
	"Acme Corporation",
	"Tech Solutions Inc",
	"Global Services LLC",
	"Innovative Systems",
	"Quality Products Co",
	"Professional Services Group",
	"Advanced Technologies",
	"Strategic Partners Inc",
	"Elite Solutions",
	"Premier Services",
}

// Categories returns a fresh copy of the WBS taxonomy in declaration order.
func Categories() []Category {
	out := make([]Category, 0, len(wbsTaxonomy))
	for _, c := range wbsTaxonomy {
		out = append(out, Category{Name: c.name, Subcategories: append([]string(nil), c.subs...)})
	}
	return out
}

// Subcategories returns the subcategories of category, if it exists.
func Subcategories(category string) ([]string, bool) {
	for _, c := range wbsTaxonomy {
		if c.name == category {
			return append([]string(nil), c.subs...), true
		}
	}
	return nil, false
}

// IsKnownWBS reports whether subcategory belongs to category.
func IsKnownWBS(category, subcategory string) bool {
	subs, ok := Subcategories(category)
	if !ok {
		return false
	}
	for _, s := range subs {
		if s == subcategory {
			return true
		}
	}
	return false
}

// Vendors returns a fresh copy of the vendor list.
func Vendors() []string {
	out := make([]string, len(vendorNames))
	copy(out, vendorNames[:])
	return out
}
