package usecase

import (
	"errors"
	"fmt"
	"strings"

	"creator-ops/domain/model"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// parseGeneratedContent enforces the analysis response schema. Any deviation is a
// GenerationError of kind schema; nothing is returned partially.
func parseGeneratedContent(raw string, validate *validator.Validate) (*model.GeneratedContent, error) {
	raw = strings.TrimSpace(raw)
	if !gjson.Valid(raw) {
		return nil, schemaError(errors.New("response is not valid JSON"))
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return nil, schemaError(errors.New("response is not a JSON object"))
	}

	content := &model.GeneratedContent{Clips: []model.Clip{}}
	for key, dst := range map[string]**string{
		"thread":    &content.Thread,
		"linkedin":  &content.LinkedIn,
		"instagram": &content.Instagram,
	} {
		s, err := optionalString(doc.Get(key), key)
		if err != nil {
			return nil, schemaError(err)
		}
		*dst = s
	}

	if shorts := doc.Get("shorts"); shorts.Exists() && shorts.Type != gjson.Null {
		if !shorts.IsObject() {
			return nil, schemaError(errors.New("shorts must be an object"))
		}
		title, err := optionalString(shorts.Get("title"), "shorts.title")
		if err != nil {
			return nil, schemaError(err)
		}
		desc, err := optionalString(shorts.Get("description"), "shorts.description")
		if err != nil {
			return nil, schemaError(err)
		}
		content.Shorts = &model.ShortsContent{Title: deref(title), Description: deref(desc)}
	}

	if clips := doc.Get("clips"); clips.Exists() && clips.Type != gjson.Null {
		if !clips.IsArray() {
			return nil, schemaError(errors.New("clips must be an array"))
		}
		for i, c := range clips.Array() {
			if !c.IsObject() {
				return nil, schemaError(fmt.Errorf("clips[%d] must be an object", i))
			}
			clip := model.Clip{
				Start: timestampField(c.Get("start")),
				End:   timestampField(c.Get("end")),
			}
			hook, err := optionalString(c.Get("hook"), fmt.Sprintf("clips[%d].hook", i))
			if err != nil {
				return nil, schemaError(err)
			}
			clip.Hook = deref(hook)
			content.Clips = append(content.Clips, clip)
		}
	}

	if err := validate.Struct(content); err != nil {
		return nil, schemaError(err)
	}
	return content, nil
}

func optionalString(r gjson.Result, field string) (*string, error) {
	switch r.Type {
	case gjson.Null:
		return nil, nil
	case gjson.String:
		if r.Str == "" {
			return nil, nil
		}
		s := r.Str
		return &s, nil
	default:
		return nil, fmt.Errorf("%s must be a string", field)
	}
}

// timestampField accepts "00:30" style strings and bare second counts.
func timestampField(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return strings.TrimSpace(r.Str)
	case gjson.Number:
		return r.Raw
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func schemaError(err error) error {
	return &model.GenerationError{Kind: model.GenerationSchema, Err: err}
}
