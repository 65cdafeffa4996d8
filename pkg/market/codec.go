package market

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Encode serializes an AdvertisementList to its textual DHT record value
// as JSON. Canonical byte-for-byte equality across peers is not
// required, only that Decode(Encode(l)) == l.
func Encode(list AdvertisementList) ([]byte, error) {
	if list == nil {
		list = AdvertisementList{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("market: encode advertisement list: %w", err)
	}
	return data, nil
}

// Decode deserializes a DHT record value back into an AdvertisementList.
// Unknown trailing data after the JSON array, or unknown fields within an
// advertisement object, is an error.
func Decode(data []byte) (AdvertisementList, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var list AdvertisementList
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("market: decode advertisement list: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("market: decode advertisement list: unexpected trailing data")
	}
	if list == nil {
		list = AdvertisementList{}
	}
	return list, nil
}
