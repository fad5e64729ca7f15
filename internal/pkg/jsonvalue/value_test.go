package jsonvalue

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParsePreservesMemberOrder(t *testing.T) {
	v, err := ParseString(`{"zeta": 1, "alpha": [1, 2], "mid": {"b": true, "a": null}}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.Kind() != Object || v.Len() != 3 {
		t.Fatalf("kind=%s len=%d", v.Kind(), v.Len())
	}
	keys := []string{}
	for _, m := range v.Members() {
		keys = append(keys, m.Key)
	}
	if keys[0] != "zeta" || keys[1] != "alpha" || keys[2] != "mid" {
		t.Fatalf("order lost: %v", keys)
	}
	alpha, _ := v.Get("alpha")
	if !alpha.IsArray() || alpha.Len() != 2 || alpha.Items()[1].Float() != 2 {
		t.Fatalf("alpha=%+v", alpha)
	}
	mid, _ := v.Get("mid")
	b, _ := mid.Get("b")
	a, _ := mid.Get("a")
	if b.Kind() != Bool || !b.Bool() || !a.IsNull() {
		t.Fatalf("mid=%+v", mid)
	}
}

func TestParseScalars(t *testing.T) {
	cases := map[string]Kind{
		`42`:     Number,
		`-1.5e3`: Number,
		`"hi"`:   String,
		`true`:   Bool,
		`null`:   Null,
		`[]`:     Array,
		`{}`:     Object,
		` [1] `:  Array,
	}
	for in, want := range cases {
		v, err := ParseString(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if v.Kind() != want {
			t.Fatalf("Parse(%q) kind=%s want %s", in, v.Kind(), want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{``, `   `, `{`, `{"a":1} trailing`, `<html>`, `[1,]`} {
		if _, err := ParseString(in); !errors.Is(err, ErrInvalidJSON) {
			t.Fatalf("Parse(%q) err=%v", in, err)
		}
	}
}

func TestParseStringEscapes(t *testing.T) {
	v, err := ParseString(`{"k\"ey": "line\nbreak é"}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s, ok := v.GetString(`k"ey`)
	if !ok || s != "line\nbreak é" {
		t.Fatalf("got %q ok=%v", s, ok)
	}
}

func TestMarshalRoundTripKeepsOrder(t *testing.T) {
	in := `{"b":1,"a":[true,null,"x"],"c":{"z":2.5}}`
	v, err := ParseString(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != in {
		t.Fatalf("got %s", out)
	}
}

func TestFromAnySortsMapKeys(t *testing.T) {
	v := FromAny(map[string]any{"b": 2.0, "a": []any{1, "x"}, "c": nil})
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"a":[1,"x"],"b":2,"c":null}` {
		t.Fatalf("got %s", out)
	}
	if FromAny(struct{}{}).IsPresent() {
		t.Fatal("unsupported types should be absent")
	}
}

func TestUnmarshalIntoValue(t *testing.T) {
	var holder struct {
		Data Value `json:"data"`
	}
	if err := json.Unmarshal([]byte(`{"data":{"y":1,"x":2}}`), &holder); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if holder.Data.Members()[0].Key != "y" {
		t.Fatalf("order lost: %+v", holder.Data.Members())
	}
}

func TestZeroValueIsAbsent(t *testing.T) {
	var v Value
	if v.IsPresent() || v.Kind() != Invalid {
		t.Fatal("zero value should be absent")
	}
	if _, ok := v.Get("x"); ok {
		t.Fatal("Get on absent value")
	}
	out, _ := json.Marshal(v)
	if string(out) != "null" {
		t.Fatalf("got %s", out)
	}
}

func TestParseToleratesLoneSurrogates(t *testing.T) {
	v, err := ParseString(`{"population": 39000000, "motto": "\ud83d"}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if motto, _ := v.GetString("motto"); motto != "\uFFFD" {
		t.Fatalf("motto=%q", motto)
	}
	if pop, _ := v.Get("population"); pop.Float() != 39000000 {
		t.Fatalf("population=%+v", pop)
	}

	// A bad escape in a key takes the tokenizer path; member order must survive it.
	v, err = ParseString(`{"z": 1, "caf\udce9": 2, "a": [true]}`)
	if err != nil {
		t.Fatalf("Parse key: %v", err)
	}
	keys := []string{}
	for _, m := range v.Members() {
		keys = append(keys, m.Key)
	}
	if len(keys) != 3 || keys[0] != "z" || keys[1] != "caf\uFFFD" || keys[2] != "a" {
		t.Fatalf("keys=%q", keys)
	}
}

func TestParseClampsOutOfRangeNumbers(t *testing.T) {
	v, err := ParseString(`{"population": 39000000, "big": 1e400, "small": -1e400, "tiny": 1e-400}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cases := map[string]float64{
		"population": 39000000,
		"big":        math.MaxFloat64,
		"small":      -math.MaxFloat64,
		"tiny":       0,
	}
	for key, want := range cases {
		got, ok := v.Get(key)
		if !ok || !got.IsNumber() || got.Float() != want {
			t.Fatalf("%s=%+v want %v", key, got, want)
		}
	}
	if _, err := json.Marshal(v); err != nil {
		t.Fatalf("Marshal clamped value: %v", err)
	}
}
