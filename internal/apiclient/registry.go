// Package apiclient talks to the benefits-platform lookup endpoints used by
// the mapping and payload stages: chapters, users and beneficiary records.
//
// Endpoints are not hardcoded; they come from a URIS.json registry file that
// also carries the payload templates. Each stage can alternatively run from
// local snapshot files, so the client is only constructed when a stage
// actually needs the network.
package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"apucli/internal/exporter"
)

// Well-known endpoint names in the registry.
const (
	EndpointChapters    = "get_chapters"
	EndpointUsers       = "get_users"
	EndpointBeneficiary = "get_beneficiary"
)

// Endpoint is one entry of the registry's endpoints table.
type Endpoint struct {
	URI     string            `json:"uri" validate:"required,url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
}

// Template wraps a payload reference object.
type Template struct {
	Reference map[string]any `json:"reference" validate:"required"`
}

// Registry is the parsed URIS.json file.
type Registry struct {
	Endpoints        map[string]Endpoint `json:"endpoints" validate:"required,dive"`
	PayloadTemplates map[string]Template `json:"payload_templates"`
}

// LoadRegistry reads and validates a URIS.json file.
func LoadRegistry(path string) (*Registry, error) {
	var reg Registry
	if err := exporter.ReadJSON(path, &reg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(&reg); err != nil {
		return nil, fmt.Errorf("invalid endpoint registry %s: %w", path, err)
	}
	return &reg, nil
}

// Endpoint returns the named endpoint. Every lookup endpoint must be a GET.
func (r *Registry) Endpoint(name string) (Endpoint, error) {
	ep, ok := r.Endpoints[name]
	if !ok {
		return Endpoint{}, fmt.Errorf("endpoint %q not found in registry", name)
	}
	if ep.Method != "" && !strings.EqualFold(ep.Method, http.MethodGet) {
		return Endpoint{}, fmt.Errorf("endpoint %q must be GET, got %s", name, ep.Method)
	}
	return ep, nil
}

// TemplateReference returns a deep copy of the named payload template's
// reference object, safe to mutate per file.
func (r *Registry) TemplateReference(name string) (map[string]any, error) {
	tpl, ok := r.PayloadTemplates[name]
	if !ok {
		return nil, fmt.Errorf("payload template %q not found in registry", name)
	}

	raw, err := json.Marshal(tpl.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to clone template %q: %w", name, err)
	}
	var clone map[string]any
	if err := json.Unmarshal(raw, &clone); err != nil {
		return nil, fmt.Errorf("failed to clone template %q: %w", name, err)
	}
	return clone, nil
}
