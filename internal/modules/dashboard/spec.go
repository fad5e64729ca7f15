package dashboard

import (
	"errors"
	"fmt"
	"strings"

	domain "github.com/yungbote/dashgen-backend/internal/domain/dashboard"
	"github.com/yungbote/dashgen-backend/internal/pkg/jsonvalue"
)

var (
	// ErrMissingWidgets means the model answered with JSON that has no widgets array.
	ErrMissingWidgets = errors.New("model output has no widgets")
	// ErrInvalidWidget means a widget declaration lacks a name or type.
	ErrInvalidWidget = errors.New("invalid widget structure")
)

// SpecParseError carries the model text that could not be parsed.
type SpecParseError struct {
	Raw string
	Err error
}

func (e *SpecParseError) Error() string {
	if e.Err == nil {
		return "invalid JSON from model"
	}
	return "invalid JSON from model: " + e.Err.Error()
}

func (e *SpecParseError) Unwrap() error { return e.Err }

// StripCodeFence removes a Markdown code fence (```json ... ``` or ``` ... ```)
// wrapping s. Text that is not fenced is returned trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string ("json", "JSON", ...) up to the first newline.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		if tag := strings.TrimSpace(s[:nl]); !strings.ContainsAny(tag, "{[") {
			s = s[nl+1:]
		}
	} else {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "json"), "JSON")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func parseModelJSON(raw string) (jsonvalue.Value, error) {
	v, err := jsonvalue.ParseString(StripCodeFence(raw))
	if err != nil {
		return jsonvalue.Value{}, &SpecParseError{Raw: raw, Err: err}
	}
	if !v.IsObject() {
		return jsonvalue.Value{}, &SpecParseError{Raw: raw, Err: fmt.Errorf("expected object, got %s", v.Kind())}
	}
	return v, nil
}

// ParseSpec parses a dashboard specification out of model text.
func ParseSpec(raw string) (domain.Spec, error) {
	v, err := parseModelJSON(raw)
	if err != nil {
		return domain.Spec{}, err
	}
	ws, ok := v.Get("widgets")
	if !ok || !ws.IsArray() {
		return domain.Spec{}, ErrMissingWidgets
	}

	spec := domain.Spec{
		Name:     stringMember(v, "dash_name"),
		Category: strings.TrimSpace(stringMember(v, "category")),
		Widgets:  make([]domain.WidgetDeclaration, 0, ws.Len()),
	}
	if spec.Name == "" {
		spec.Name = stringMember(v, "name")
	}
	if spec.Category == "" {
		spec.Category = "n/a"
	}
	for i, w := range ws.Items() {
		decl, err := declarationFrom(w)
		if err != nil {
			return domain.Spec{}, fmt.Errorf("widget %d: %w", i, err)
		}
		spec.Widgets = append(spec.Widgets, decl)
	}
	return spec, nil
}

// ParseWidget parses one widget declaration. Only bar, line and number are accepted.
func ParseWidget(raw string) (domain.WidgetDeclaration, error) {
	v, err := parseModelJSON(raw)
	if err != nil {
		return domain.WidgetDeclaration{}, err
	}
	decl, err := declarationFrom(v)
	if err != nil {
		return domain.WidgetDeclaration{}, err
	}
	if !decl.Type.Valid() {
		return domain.WidgetDeclaration{}, fmt.Errorf("%w: unknown widget type %q", ErrInvalidWidget, decl.Type)
	}
	return decl, nil
}

func declarationFrom(v jsonvalue.Value) (domain.WidgetDeclaration, error) {
	if !v.IsObject() {
		return domain.WidgetDeclaration{}, fmt.Errorf("%w: expected object, got %s", ErrInvalidWidget, v.Kind())
	}
	name := stringMember(v, "name")
	typ, _ := domain.ParseChartType(stringMember(v, "type"))
	if name == "" || typ == "" {
		return domain.WidgetDeclaration{}, fmt.Errorf("%w: name and type are required", ErrInvalidWidget)
	}
	decl := domain.WidgetDeclaration{
		Name:      name,
		Type:      typ,
		Source:    stringMember(v, "source"),
		SourceURL: stringMember(v, "source_url"),
	}
	if data, ok := v.Get("data"); ok {
		decl.Data = data
	}
	return decl, nil
}

func stringMember(v jsonvalue.Value, key string) string {
	s, _ := v.GetString(key)
	return strings.TrimSpace(s)
}
