package models

import (
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestAddMetaProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("blank values never create a key", prop.ForAll(
		func(n int) bool {
			item := NewItem("x").AddMeta("dc.title", strings.Repeat(" ", n))
			return !item.HasMeta("dc.title")
		},
		gen.IntRange(0, 16),
	))

	properties.Property("variadic add equals sequential adds", prop.ForAll(
		func(values []string) bool {
			a := NewItem("x").AddMeta("dc.subject", values...)
			b := NewItem("x")
			for _, v := range values {
				b.AddMeta("dc.subject", v)
			}
			ja, _ := json.Marshal(a.Metadata())
			jb, _ := json.Marshal(b.Metadata())
			return string(ja) == string(jb)
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.Property("stored values are trimmed and non-empty", prop.ForAll(
		func(values []string) bool {
			item := NewItem("x").AddMeta("dc.subject", values...)
			for _, v := range item.MetaValues("dc.subject") {
				if v == "" || v != strings.TrimSpace(v) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.Property("payload round-trips through a document", prop.ForAll(
		func(values []string, lang, authority string, confidence int, entityType string) bool {
			item := NewItem("x").SetEntityType(entityType)
			for n, v := range values {
				mv := NewMetaValue(v).WithLanguage(lang)
				if n%2 == 1 {
					mv = mv.WithAuthority(authority, confidence)
				}
				item.AddMetaValue("dc.subject", mv)
			}
			raw, err := json.Marshal(item)
			if err != nil {
				return false
			}
			back, err := ItemFromDocument(Document(raw))
			if err != nil {
				return false
			}
			return reflect.DeepEqual(item.Metadata(), back.Metadata()) &&
				item.EntityType() == back.EntityType()
		},
		gen.SliceOf(gen.AlphaString()),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.IntRange(-1, 600),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
