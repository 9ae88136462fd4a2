package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apucli/internal/exporter"
)

func registryFor(t *testing.T, server *httptest.Server) *Registry {
	t.Helper()
	return &Registry{
		Endpoints: map[string]Endpoint{
			EndpointChapters: {URI: server.URL + "/chapters", Headers: map[string]string{"X-Source": "registry"}},
			EndpointUsers:    {URI: server.URL + "/users"},
			EndpointBeneficiary: {
				URI:    server.URL + "/beneficiary/{{user_id}}",
				Method: "GET",
			},
		},
	}
}

func TestChapters(t *testing.T) {
	var gotAuth, gotSource, gotExtra string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotSource = r.Header.Get("X-Source")
		gotExtra = r.Header.Get("X-Region")
		w.Write([]byte(`[{"id": 10, "category": "Obra", "subcategory": [{"id": 285865, "apu": "1.10"}]}]`))
	}))
	defer server.Close()

	c := New(registryFor(t, server), Options{
		Token:   "tok",
		Headers: map[string]string{"X-Region": "sur"},
	})

	chapters, err := c.Chapters(context.Background())
	require.NoError(t, err)

	require.Len(t, chapters, 1)
	assert.Equal(t, "Obra", chapters[0].Category)
	require.Len(t, chapters[0].Subcategories, 1)
	assert.Equal(t, "1.10", chapters[0].Subcategories[0].APU)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "registry", gotSource)
	assert.Equal(t, "sur", gotExtra)
}

func TestChaptersSingleObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 1, "category": "Obra", "subcategory": []}`))
	}))
	defer server.Close()

	chapters, err := New(registryFor(t, server), Options{}).Chapters(context.Background())
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "Obra", chapters[0].Category)
}

func TestUsers(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "wrapped items", body: `{"items": [{"id": 5, "document_number": "123", "budget_id": 9}]}`},
		{name: "bare array", body: `[{"id": 5, "document_number": "123", "budget_id": 9}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			users, err := New(registryFor(t, server), Options{}).Users(context.Background())
			require.NoError(t, err)
			require.Len(t, users, 1)
			assert.Equal(t, "123", users[0].DocumentNumber)
		})
	}
}

func TestBeneficiarySubstitutesUserID(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"contractor": {"id": 3}}`))
	}))
	defer server.Close()

	ben, err := New(registryFor(t, server), Options{}).Beneficiary(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, "/beneficiary/42", gotPath)
	contractor, ok := ben["contractor"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3.0, contractor["id"])
}

func TestNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := New(registryFor(t, server), Options{}).Users(context.Background())
	assert.ErrorContains(t, err, "403")
}

func TestEndpointValidation(t *testing.T) {
	reg := &Registry{Endpoints: map[string]Endpoint{
		EndpointUsers: {URI: "http://example.com/users", Method: "POST"},
	}}

	_, err := reg.Endpoint(EndpointUsers)
	assert.ErrorContains(t, err, "must be GET")

	_, err = reg.Endpoint(EndpointChapters)
	assert.ErrorContains(t, err, "not found")
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "URIS.json")
	require.NoError(t, exporter.WriteJSON(path, map[string]any{
		"endpoints": map[string]any{
			"get_chapters": map[string]any{"uri": "https://api.example.com/chapters"},
		},
		"payload_templates": map[string]any{
			"budget_payload": map[string]any{
				"reference": map[string]any{"beneficiary_id": nil},
			},
		},
	}))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	ep, err := reg.Endpoint(EndpointChapters)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/chapters", ep.URI)

	ref, err := reg.TemplateReference("budget_payload")
	require.NoError(t, err)
	ref["beneficiary_id"] = 9

	ref2, err := reg.TemplateReference("budget_payload")
	require.NoError(t, err)
	assert.Nil(t, ref2["beneficiary_id"], "each reference copy is independent")
}

func TestLoadRegistryInvalidURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "URIS.json")
	require.NoError(t, exporter.WriteJSON(path, map[string]any{
		"endpoints": map[string]any{
			"get_chapters": map[string]any{"uri": "not a url"},
		},
	}))

	_, err := LoadRegistry(path)
	assert.Error(t, err)
}
