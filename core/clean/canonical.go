package clean

// Canonical lookup tables for string standardization. Keys are the
// trimmed, lowercased variants observed in historical source data;
// values are the canonical forms. These are pure configuration data
// and must not be mutated at runtime.

var regionMap = map[string]string{
	"nort":  "North",
	"north": "North",
	"sout":  "South",
	"south": "South",
	"eas":   "East",
	"east":  "East",
	"wes":   "West",
	"west":  "West",
}

var productNameMap = map[string]string{
	"laptop pro":          "Laptop Pro 15",
	"smartfone x":         "Smartphone X",
	"smart-phone x":       "Smartphone X",
	"smartphone-x":        "Smartphone X",
	"wirless headphones":  "Wireless Headphones",
	"wireless headphones": "Wireless Headphones",
	"4k led tv":           "4K LED TV",
	"4ktv":                "4K LED TV",
	"blenderpro":          "Blender Pro",
	"blender pro":         "Blender Pro",
	"cofee maker elite":   "Coffee Maker Elite",
	"coffee maker elite":  "Coffee Maker Elite",
	"mens t-shirt (blue)": "Men's T-shirt (Blue)",
	"t-shirt (blue)":      "Men's T-shirt (Blue)",
}

var categoryMap = map[string]string{
	"electronics":     "Electronics",
	"home appliance":  "Home Appliance",
	"home appliances": "Home Appliance",
	"fashion":         "Fashion",
	"clothing":        "Fashion",
}
