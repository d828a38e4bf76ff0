package redisx

const (
	// Mirror document per product: mirror:product:{id} -> document JSON
	KeyMirrorProduct = "mirror:product:%s"

	// Set of product ids currently present in the mirror.
	KeyMirrorIndex = "mirror:products"
)
