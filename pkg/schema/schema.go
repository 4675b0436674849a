// Package schema holds the Avro contracts of the storefront topics and
// their schema registry serdes.
package schema

import "github.com/hamba/avro/v2"

const CartEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.cart",
	"name": "cart_event",
	"fields": [
		{"name": "cart_id", "type": "string"},
		{"name": "kind", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "quantity", "type": "int"},
		{"name": "unit_price", "type": "string"},
		{"name": "occurred_at", "type": "long"}
	]
}`

// A CartEventV1 is the wire form of a cart event.
//
// UnitPrice is a decimal string, OccurredAt is unix milliseconds.
type CartEventV1 struct {
	CartID     string `avro:"cart_id"`
	Kind       string `avro:"kind"`
	ProductID  string `avro:"product_id"`
	Quantity   int    `avro:"quantity"`
	UnitPrice  string `avro:"unit_price"`
	OccurredAt int64  `avro:"occurred_at"`
}

func CartEventV1Avro() avro.Schema {
	return avro.MustParse(CartEventSchemaTextV1)
}

func AvroEncodeFn(s avro.Schema) func(v any) ([]byte, error) {
	return func(v any) ([]byte, error) {
		return avro.Marshal(s, v)
	}
}

func AvroDecodeFn(s avro.Schema) func([]byte, any) error {
	return func(data []byte, v any) error {
		return avro.Unmarshal(s, data, v)
	}
}
