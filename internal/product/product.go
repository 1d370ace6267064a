package product

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry stored in the `products` collection.
// Category holds the category *name*; listing categories joins on it.
//
// Documents are stored as sent. The typed fields hold the known keys when
// they carry the usual type; any other key, or a known key holding some other
// type, stays in Extra and is written back unchanged.
type Product struct {
	ID          primitive.ObjectID
	Title       string
	Category    string
	Price       float64
	Description string
	AddedToCart bool
	Extra       map[string]any

	// present marks known keys that came from a decoded document, so a
	// zero value that was sent is still written out.
	present map[string]bool
}

var knownFields = []string{"title", "category", "price", "description", "addedToCart"}

// Fields flattens the product into a single map using its JSON field names.
// Known fields are included when they were supplied or are non-zero.
func (p Product) Fields() map[string]any {
	out := make(map[string]any, len(p.Extra)+len(knownFields)+1)
	for k, v := range p.Extra {
		out[k] = v
	}
	if !p.ID.IsZero() {
		out["_id"] = p.ID.Hex()
	}
	p.putKnown(out)
	return out
}

func (p Product) putKnown(out map[string]any) {
	for _, k := range knownFields {
		var v any
		var zero bool
		switch k {
		case "title":
			v, zero = p.Title, p.Title == ""
		case "category":
			v, zero = p.Category, p.Category == ""
		case "price":
			v, zero = p.Price, p.Price == 0
		case "description":
			v, zero = p.Description, p.Description == ""
		case "addedToCart":
			v, zero = p.AddedToCart, !p.AddedToCart
		}
		if !zero || p.present[k] {
			out[k] = v
		}
	}
}

func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Fields())
}

// UnmarshalJSON accepts any object. A client supplied _id is ignored since
// ids are store assigned.
func (p *Product) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*p = FromFields(m)
	return nil
}

// MarshalBSON writes the same top-level shape as Fields, with _id left out
// when unset so the driver assigns one.
func (p Product) MarshalBSON() ([]byte, error) {
	doc := make(bson.M, len(p.Extra)+len(knownFields)+1)
	for k, v := range p.Extra {
		doc[k] = v
	}
	if !p.ID.IsZero() {
		doc["_id"] = p.ID
	}
	p.putKnown(doc)
	return bson.Marshal(doc)
}

// UnmarshalBSON never fails on a field's type; see Product.
func (p *Product) UnmarshalBSON(b []byte) error {
	var m bson.M
	if err := bson.Unmarshal(b, &m); err != nil {
		return err
	}
	id, hasID := m["_id"]
	delete(m, "_id")
	np := FromFields(m)
	if oid, ok := id.(primitive.ObjectID); ok {
		np.ID = oid
	} else if hasID {
		if np.Extra == nil {
			np.Extra = map[string]any{}
		}
		np.Extra["_id"] = id
	}
	*p = np
	return nil
}

// FromFields is the inverse of Fields, minus the identifier.
func FromFields(m map[string]any) Product {
	var p Product
	extra := map[string]any{}
	for k, v := range m {
		if k == "_id" {
			continue
		}
		if !p.setKnown(k, v) {
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		p.Extra = extra
	}
	return p
}

// setKnown stores v in its typed field when k is known and v has the
// expected type.
func (p *Product) setKnown(k string, v any) bool {
	var ok bool
	switch k {
	case "title":
		p.Title, ok = v.(string)
	case "category":
		p.Category, ok = v.(string)
	case "description":
		p.Description, ok = v.(string)
	case "price":
		p.Price, ok = toFloat(v)
	case "addedToCart":
		p.AddedToCart, ok = v.(bool)
	default:
		return false
	}
	if !ok {
		return false
	}
	if p.present == nil {
		p.present = map[string]bool{}
	}
	p.present[k] = true
	return true
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// samplePlants seeds the catalog when /dev/reset-products gets no usable body.
var samplePlants = []Product{
	{Title: "Snake Plant", Category: "Indoor Plants", Price: 24.99, Description: "Hardy upright leaves, tolerates low light"},
	{Title: "Desert Rose", Category: "Succulents", Price: 18.5, Description: "Swollen trunk with pink trumpet flowers"},
	{Title: "Climbing Rose", Category: "Flowering Plants", Price: 32, Description: "Fragrant climber for trellis and fences"},
	{Title: "Fiddle Leaf Fig", Category: "Indoor Plants", Price: 45, Description: "Large violin shaped leaves"},
}
