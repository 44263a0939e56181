package iosparql

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/pkg/errcode"
)

const bodySnippet = 200

// RequestError is returned when the request did not reach the server or
// no response came back.
func RequestError(endpoint string, err error) error {
	return &gn.Error{
		Code: errcode.SparqlRequestError,
		Msg:  "Cannot reach SPARQL endpoint <em>%s</em>",
		Vars: []any{endpoint},
		Err:  fmt.Errorf("sparql request to %s: %w", endpoint, err),
	}
}

// StatusError is returned for a non-2xx response.
func StatusError(status int, body []byte) error {
	snip := string(body)
	if len(snip) > bodySnippet {
		snip = snip[:bodySnippet] + "..."
	}
	return &gn.Error{
		Code: errcode.SparqlStatusError,
		Msg:  "SPARQL endpoint responded with status <em>%d</em>",
		Vars: []any{status},
		Err:  fmt.Errorf("sparql status %d: %s", status, snip),
	}
}

// RetriesExhaustedError is returned when every attempt was rate limited
// or failed on the network.
func RetriesExhaustedError(attempts int, last error) error {
	return &gn.Error{
		Code: errcode.SparqlRetriesExhaustedError,
		Msg:  "SPARQL endpoint kept failing after %d attempts",
		Vars: []any{attempts},
		Err:  fmt.Errorf("sparql gave up after %d attempts: %w", attempts, last),
	}
}

// MalformedResponseError is returned when the body is not a SPARQL JSON
// result set.
func MalformedResponseError(reason string) error {
	return &gn.Error{
		Code: errcode.SparqlMalformedResponseError,
		Msg:  "SPARQL endpoint sent an unexpected response",
		Err:  fmt.Errorf("sparql malformed response: %s", reason),
	}
}

// QueryTemplateError is returned when the events query cannot be
// rendered.
func QueryTemplateError(err error) error {
	return &gn.Error{
		Code: errcode.SparqlQueryTemplateError,
		Msg:  "Cannot build SPARQL query",
		Err:  fmt.Errorf("sparql query template: %w", err),
	}
}
