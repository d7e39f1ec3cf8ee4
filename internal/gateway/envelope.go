package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/phegonbank/webclient-go/internal/errors"
)

// envelope is the standard response wrapper used by most backend
// endpoints. Some endpoints return the bare payload instead; decodeBody
// and decodeList tolerate both.
type envelope struct {
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode"`
}

// listCandidates are JMESPath expressions tried in precedence order when
// unwrapping a list payload. Array-direct is canonical; the rest are
// legacy-compat fallbacks the backend has shipped at various points
// (Spring pagination, the standard envelope, an ad-hoc transactions
// wrapper, and envelope-wrapped pagination).
var listCandidates = []string{
	"@",
	"content",
	"data.content",
	"data",
	"transactions",
}

// decodeBody decodes a response body into out, unwrapping the standard
// envelope when present. A body whose top level carries "data" next to
// "message" or "statusCode" is treated as enveloped; anything else is
// decoded directly.
func decodeBody(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil &&
		len(env.Data) > 0 && (env.Message != "" || env.StatusCode != 0) {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return apperrors.Decode(err)
		}
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Decode(err)
	}
	return nil
}

// decodeList decodes a list payload into out (a pointer to a slice),
// trying each candidate shape in precedence order and taking the first
// that yields an array.
func decodeList(data []byte, out any) error {
	if out == nil {
		return nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return apperrors.Decode(err)
	}

	for _, expr := range listCandidates {
		res, err := jmespath.Search(expr, doc)
		if err != nil || res == nil {
			continue
		}
		arr, ok := res.([]any)
		if !ok {
			continue
		}
		items, err := json.Marshal(arr)
		if err != nil {
			return apperrors.Decode(err)
		}
		if err := json.Unmarshal(items, out); err != nil {
			return apperrors.Decode(err)
		}
		return nil
	}

	return apperrors.Decode(fmt.Errorf("no recognized list shape in response"))
}

// readErrorMessage extracts a human-readable message from an error
// response body: the envelope's message field when present, otherwise an
// "error" field, otherwise the trimmed raw body.
func readErrorMessage(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return "", fmt.Errorf("read error body: %w", err)
	}

	var probe struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if jerr := json.Unmarshal(data, &probe); jerr == nil {
		if probe.Message != "" {
			return probe.Message, nil
		}
		if probe.Error != "" {
			return probe.Error, nil
		}
	}
	return strings.TrimSpace(string(data)), nil
}
