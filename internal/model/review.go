package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Epoch is a Unix timestamp as delivered by the marketplace. The raw text is kept
// because the API sends numbers, numeric strings, empty strings or nothing at all.
type Epoch string

// EpochOf builds an Epoch from Unix seconds.
func EpochOf(sec int64) Epoch {
	return Epoch(strconv.FormatInt(sec, 10))
}

// Unix returns the timestamp in seconds. ok is false when the value is absent,
// not an integer, or not positive.
func (e Epoch) Unix() (sec int64, ok bool) {
	s := strings.TrimSpace(string(e))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// UnmarshalJSON accepts a number, a string or null and never fails on content.
func (e *Epoch) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*e = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*e = ""
			return nil
		}
		*e = Epoch(s)
		return nil
	}
	*e = Epoch(b)
	return nil
}

// Review is one user-submitted product review. Reviews are read-only inputs.
type Review struct {
	ID            string `json:"id,omitempty"`
	ReviewerID    string `json:"reviewer_id,omitempty"`
	ReviewerName  string `json:"reviewer_name,omitempty"`
	ReviewerLabel string `json:"reviewer_label,omitempty"`
	Message       string `json:"message,omitempty"`
	Rating        int    `json:"rating,omitempty"` // 1-5, 0 when absent
	CreatedAt     Epoch  `json:"created_at,omitempty"`
	IsAnonymous   bool   `json:"is_anonymous"`
	VariantName   string `json:"variant_name,omitempty"`
}

// ReviewPage is one page of the product review list.
type ReviewPage struct {
	ProductID string
	Reviews   []Review
	HasNext   bool
}
