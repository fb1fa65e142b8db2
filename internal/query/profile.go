package query

// FieldFilter binds a query parameter to the record path it filters on.
type FieldFilter struct {
	Param string
	Path  string
}

// Profile describes which filters apply to an entity and where they look.
// Filters a profile does not list are ignored for that entity.
type Profile struct {
	Entity       string
	SearchFields []string
	Exact        []FieldFilter
	Ranges       []FieldFilter
	Active       bool
	Tags         bool
	Dates        bool
	// ItemsPath names the array whose elements carry productId.
	ItemsPath string
}

var Products = Profile{
	Entity:       "products",
	SearchFields: []string{"name", "description", "category", "brand", "sku", "tags"},
	Exact: []FieldFilter{
		{Param: "category", Path: "category"},
		{Param: "brand", Path: "brand"},
	},
	Ranges: []FieldFilter{
		{Param: "price", Path: "price"},
		{Param: "stock", Path: "stock"},
		{Param: "rating", Path: "rating"},
	},
	Active: true,
	Tags:   true,
	Dates:  true,
}

var Users = Profile{
	Entity:       "users",
	SearchFields: []string{"username", "email", "firstName", "lastName", "role"},
	Exact: []FieldFilter{
		{Param: "role", Path: "role"},
		{Param: "country", Path: "address.country"},
		{Param: "city", Path: "address.city"},
	},
	Active: true,
	Tags:   true,
	Dates:  true,
}

var Sales = Profile{
	Entity:       "sales",
	SearchFields: []string{"orderId", "customerName", "customerEmail", "status", "paymentMethod"},
	Exact: []FieldFilter{
		{Param: "status", Path: "status"},
		{Param: "paymentMethod", Path: "paymentMethod"},
		{Param: "country", Path: "shippingAddress.country"},
		{Param: "city", Path: "shippingAddress.city"},
	},
	Ranges: []FieldFilter{
		{Param: "total", Path: "total"},
	},
	Dates:     true,
	ItemsPath: "items",
}
