package config

// Category is the help-listing bucket a command belongs to. The zero value is
// CategoryOther, the bucket for commands without a recognised category.
type Category int

const (
	CategoryOther Category = iota
	CategoryInfo
	CategoryLookup
	CategoryCalc
	CategoryCodes
	CategoryWeather
	CategoryAdmin
	CategoryUtils
	CategoryFun
)

// Categories lists the known categories in display order.
var Categories = []Category{
	CategoryInfo,
	CategoryLookup,
	CategoryCalc,
	CategoryCodes,
	CategoryWeather,
	CategoryAdmin,
	CategoryUtils,
	CategoryFun,
}

var categoryNames = map[Category]string{
	CategoryInfo:    "Information",
	CategoryLookup:  "Lookup",
	CategoryCalc:    "Calculators",
	CategoryCodes:   "Codes",
	CategoryWeather: "Land and Space Weather",
	CategoryAdmin:   "Bot Control",
	CategoryUtils:   "Utilities",
	CategoryFun:     "Fun",
}

// Known reports whether c is one of the enumerated categories.
func (c Category) Known() bool {
	_, ok := categoryNames[c]
	return ok
}

// Order is the sort key of c: its index in Categories, or len(Categories)
// for anything unrecognised so it sorts after every known category.
func (c Category) Order() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}

// String returns the display name, "Other" for unrecognised categories.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Other"
}
