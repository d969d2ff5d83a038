// Package pagedef turns a YAML page description into the placeholder markup
// the engine hydrates. It is a minimal stand-in for the server-side page
// build that emits this markup in production; the demo binary and the
// end-to-end tests use it to assemble pages.
package pagedef

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"finitefield.org/hanko-fragments/internal/fragment/schema"
	"finitefield.org/hanko-fragments/internal/fragment/token"
)

// Page describes one page worth of deferred regions and the forms that
// drive them.
type Page struct {
	Name    string   `yaml:"page"`
	Regions []Region `yaml:"regions"`
	Forms   []Form   `yaml:"forms"`
}

// Region describes one deferred region.
type Region struct {
	ID              string            `yaml:"id"`
	Trigger         string            `yaml:"trigger"`
	TriggerID       string            `yaml:"trigger_id"`
	TargetAction    string            `yaml:"target_action"`
	Template        string            `yaml:"template"`
	Params          map[string]string `yaml:"params"`
	ValueSeparator  string            `yaml:"valsep"`
	UpdateURL       bool              `yaml:"update_url"`
	PaginationID    string            `yaml:"pagination_id"`
	PaginationClass string            `yaml:"pagination_class"`
	LoadMoreID      string            `yaml:"loadmore_id"`
}

// Form describes a plain form element emitted alongside the regions.
type Form struct {
	ID     string  `yaml:"id"`
	Submit string  `yaml:"submit"`
	Fields []Field `yaml:"fields"`
}

// Field is one named form input.
type Field struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Load decodes and validates a page description.
func Load(r io.Reader) (Page, error) {
	var p Page
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Page{}, fmt.Errorf("pagedef: decode: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Page{}, err
	}
	return p, nil
}

// Validate checks the description for contradictions the engine cannot
// recover from.
func (p Page) Validate() error {
	for _, r := range p.Regions {
		if r.ID == "" {
			return fmt.Errorf("pagedef: region without id")
		}
		t := schema.Trigger(r.Trigger)
		if !t.Valid() {
			return fmt.Errorf("pagedef: region %q: unknown trigger %q", r.ID, r.Trigger)
		}
		if (t == schema.TriggerClick || t == schema.TriggerSubmit) && r.TriggerID == "" {
			return fmt.Errorf("pagedef: region %q: trigger %q requires trigger_id", r.ID, r.Trigger)
		}
	}
	for _, f := range p.Forms {
		if f.ID == "" {
			return fmt.Errorf("pagedef: form without id")
		}
	}
	return nil
}

// HTML emits the body markup for the page: each form, then each region with
// its initial spinner content. The renderable string is precomputed from the
// region's template and initial parameters, so an immediate trigger can
// fetch without a prior parameter mutation.
func (p Page) HTML() (string, error) {
	var b strings.Builder
	for _, f := range p.Forms {
		f.write(&b)
	}
	for _, r := range p.Regions {
		if err := r.write(&b, p.Name); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func (r Region) write(b *strings.Builder, pageName string) error {
	ph := schema.Placeholder{
		PageName:        pageName,
		Trigger:         schema.Trigger(r.Trigger),
		TargetAction:    schema.TargetAction(r.TargetAction),
		TemplateModel:   r.Template,
		Renderable:      token.Substitute(r.Template, token.ParamsSource(r.Params)),
		ValueSeparator:  r.ValueSeparator,
		UpdateURL:       r.UpdateURL,
		TriggerID:       r.TriggerID,
		PaginationID:    r.PaginationID,
		PaginationClass: r.PaginationClass,
		LoadMoreID:      r.LoadMoreID,
	}
	if ph.TargetAction == "" {
		ph.TargetAction = schema.ActionReplace
	}

	attrs := ph.AttrMap()
	paramsJSON, err := json.Marshal(nonNil(r.Params))
	if err != nil {
		return fmt.Errorf("pagedef: region %q: encode params: %w", r.ID, err)
	}
	attrs[schema.AttrParams] = string(paramsJSON)

	fmt.Fprintf(b, `<div id="%s" class="%s"%s><span class="%s"></span></div>`,
		html.EscapeString(r.ID), schema.MarkerClass, schema.AttrString(attrs), schema.SpinnerClass)
	b.WriteByte('\n')
	return nil
}

func (f Form) write(b *strings.Builder) {
	fmt.Fprintf(b, `<form id="%s">`, html.EscapeString(f.ID))
	for _, field := range f.Fields {
		if field.Label != "" {
			fmt.Fprintf(b, `<label>%s `, html.EscapeString(field.Label))
		}
		fmt.Fprintf(b, `<input type="text" name="%s" value="%s">`,
			html.EscapeString(field.Name), html.EscapeString(field.Value))
		if field.Label != "" {
			b.WriteString(`</label>`)
		}
	}
	label := f.Submit
	if label == "" {
		label = "Apply"
	}
	fmt.Fprintf(b, `<button type="submit">%s</button></form>`, html.EscapeString(label))
	b.WriteByte('\n')
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
