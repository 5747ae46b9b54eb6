package compiler

import (
	"bytes"
	"encoding/json"
	"strings"
)

// wireRequest is the JSON body of POST /compile.
type wireRequest struct {
	Code string `json:"code"`
}

// wireResponse is the 2xx body. Pointers tell absent fields from empty ones.
type wireResponse struct {
	Output *string  `json:"output"`
	Tokens []string `json:"tokens"`
	AST    *string  `json:"ast"`
	JS     *string  `json:"js"`
	Code   *string  `json:"code"`
}

// wireError is the non-2xx body.
type wireError struct {
	Detail json.RawMessage `json:"detail"`
}

// generatedCodeFields lists the accepted names of the generated code field;
// the first one present wins.
var generatedCodeFields = []string{"js", "code"}

func (w *wireResponse) field(name string) *string {
	switch name {
	case "js":
		return w.JS
	case "code":
		return w.Code
	}
	return nil
}

// toResult converts the wire payload, replacing absent fields.
func (w *wireResponse) toResult() *Result {
	res := &Result{
		Tokens:        w.Tokens,
		SyntaxTree:    NoOutput,
		GeneratedCode: NoOutput,
	}
	if res.Tokens == nil {
		res.Tokens = []string{}
	}
	if w.AST != nil {
		res.SyntaxTree = *w.AST
	}
	for _, name := range generatedCodeFields {
		if v := w.field(name); v != nil {
			res.GeneratedCode = *v
			break
		}
	}
	return res
}

// detailMessage extracts a user-visible message from an error body. String
// details are returned as-is; structured details (e.g. validation error
// lists) are returned as compact JSON. Anything else yields "".
func detailMessage(body []byte) string {
	var we wireError
	if err := json.Unmarshal(body, &we); err != nil || len(we.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(we.Detail, &s); err == nil {
		return s
	}
	if bytes.Equal(bytes.TrimSpace(we.Detail), []byte("null")) {
		return ""
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, we.Detail); err != nil {
		return ""
	}
	return strings.TrimSpace(compact.String())
}
