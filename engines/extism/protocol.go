package extism

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// runRequest is the JSON input handed to the plugin's entrypoint.
type runRequest struct {
	Code string `json:"code"`
}

// runResponse is the JSON the entrypoint must return. Value is null when
// the program has no final value; a non-empty Error marks a failed run.
type runResponse struct {
	Lines []string `json:"lines"`
	Value *string  `json:"value"`
	Error string   `json:"error"`
}

func encodeRequest(code string) ([]byte, error) {
	return json.Marshal(runRequest{Code: code})
}

func decodeResponse(output []byte) (*runResponse, error) {
	if len(bytes.TrimSpace(output)) == 0 {
		return nil, ErrEmptyResponse
	}
	var resp runResponse
	d := json.NewDecoder(bytes.NewReader(output))
	if err := d.Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return &resp, nil
}
