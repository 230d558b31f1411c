// Package local implements the repository interfaces over the JSON
// snapshot store. It is the second implementation of the persistence
// port, selected when STORAGE_DRIVER=local.
package local

import (
	"encoding/json"

	"taskdesk/pkg/localstore"
)

// Records and entities share JSON shapes, so conversion is a round-trip
// through encoding/json rather than hand-written field copying.
func decodeRecord[T any](record localstore.Record) (*T, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func decodeRecords[T any](records []localstore.Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, record := range records {
		decoded, err := decodeRecord[T](record)
		if err != nil {
			return nil, err
		}
		out = append(out, *decoded)
	}
	return out, nil
}

func encodeEntity(v interface{}) (localstore.Record, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var record localstore.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, err
	}
	return record, nil
}
