package httpcache

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// StoredResponse is the cached form of a handler response.
type StoredResponse struct {
	Status      int    `msgpack:"s"`
	ContentType string `msgpack:"ct"`
	Body        []byte `msgpack:"b"`
}

func (r StoredResponse) Marshal() ([]byte, error) {
	data, err := msgpack.Marshal(&r)
	if err != nil {
		return nil, fmt.Errorf("encode stored response: %w", err)
	}
	return data, nil
}

func UnmarshalStoredResponse(data []byte) (StoredResponse, error) {
	var r StoredResponse
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return StoredResponse{}, fmt.Errorf("decode stored response: %w", err)
	}
	return r, nil
}
