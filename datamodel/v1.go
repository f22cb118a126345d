package datamodel

import json "github.com/goccy/go-json"

// decodeV1 parses raw JSON as a current-schema clip.
func decodeV1(data []byte) (*Clip, error) {
	var c Clip
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, newLoadError(InvalidSchema, "", err)
	}
	return &c, nil
}
