package category

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a row of the `categories` collection. Products reference it by
// Name, not by ID. TotalProducts is derived on read and never stored.
type Category struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	TotalProducts int64              `bson:"totalProducts,omitempty"`
	Extra         bson.M             `bson:",inline"`
}

func (c Category) Fields() map[string]any {
	out := make(map[string]any, len(c.Extra)+3)
	for k, v := range c.Extra {
		out[k] = v
	}
	if !c.ID.IsZero() {
		out["_id"] = c.ID.Hex()
	}
	out["name"] = c.Name
	out["totalProducts"] = c.TotalProducts
	return out
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Fields())
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	nc, err := FromFields(m)
	if err != nil {
		return err
	}
	*c = nc
	return nil
}

// FromFields builds a category from a JSON object. _id and totalProducts are
// dropped.
func FromFields(m map[string]any) (Category, error) {
	var c Category
	extra := bson.M{}
	for k, v := range m {
		switch k {
		case "_id", "totalProducts":
		case "name":
			switch s := v.(type) {
			case nil:
			case string:
				c.Name = s
			default:
				return Category{}, fmt.Errorf("name must be a string")
			}
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		c.Extra = extra
	}
	return c, nil
}
