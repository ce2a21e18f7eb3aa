package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON document from the request body into dst.
// Decoding failures are returned as-is for the error normalizer.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// queryInt parses an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &utils.CastError{Field: name, Value: raw, Err: err}
	}
	return n, nil
}
