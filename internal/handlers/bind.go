package handlers

import (
	"bytes"

	"bookclub/internal/apperr"
	"bookclub/internal/validation"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// fieldAliases maps client field names to the names of the request struct.
type fieldAliases map[string]string

var (
	meetingAliases  = fieldAliases{"agenda": "topic", "clubId": "club"}
	postAliases     = fieldAliases{"clubId": "club"}
	progressAliases = fieldAliases{"clubId": "club", "bookId": "book"}
)

// bindJSON decodes the request body into dst after renaming aliased fields,
// then validates dst. When both an alias and its target are sent, the
// target wins.
func bindJSON(c *fiber.Ctx, aliases fieldAliases, dst interface{}) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return apperr.Validation("request body is required", nil)
	}

	if len(aliases) > 0 {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(body, &raw); err != nil {
			return apperr.Validation("invalid JSON body", nil)
		}
		for from, to := range aliases {
			v, ok := raw[from]
			if !ok {
				continue
			}
			if _, taken := raw[to]; !taken {
				raw[to] = v
			}
			delete(raw, from)
		}
		renamed, err := json.Marshal(raw)
		if err != nil {
			return apperr.Internal("failed to re-encode request body", err)
		}
		body = renamed
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.Validation("invalid request body: "+err.Error(), nil)
	}
	return validation.Struct(dst)
}

// sentNull reports whether the request body sets field to JSON null, which
// decoding into a pointer cannot tell from an absent field.
func sentNull(c *fiber.Ctx, field string) bool {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return false
	}
	v, ok := raw[field]
	return ok && bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// paramID returns the named path parameter after checking it is a valid id.
func paramID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if err := validation.ID(name, id); err != nil {
		return "", err
	}
	return id, nil
}

// changeSet collects column updates from optional request fields.
type changeSet map[string]interface{}

func (s changeSet) setString(column string, v *string) {
	if v != nil {
		s[column] = *v
	}
}

func (s changeSet) setInt(column string, v *int) {
	if v != nil {
		s[column] = *v
	}
}

func (s changeSet) setBool(column string, v *bool) {
	if v != nil {
		s[column] = *v
	}
}

func (s changeSet) set(column string, v interface{}, present bool) {
	if present {
		s[column] = v
	}
}

func requireChanges(s changeSet) error {
	if len(s) == 0 {
		return apperr.Validation("no updatable fields supplied", nil)
	}
	return nil
}
