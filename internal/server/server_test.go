package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/twofish/pkg/pipeline"
)

const stackScene = `{"nodes":[
	{"id":"A","type":"Rect","bbox":{"x":0,"y":0,"width":20,"height":10}},
	{"id":"B","type":"Rect","bbox":{"x":30,"y":0,"width":10,"height":10}},
	{"id":"S","type":"Stack","bbox":{},"childrenIds":["A","B"],"data":{"direction":"horizontal","spacing":5}}
]}`

const pairScene = `{"nodes":[
	{"id":"a","type":"Rect","bbox":{"y":0,"width":10,"height":10},"owned":{"x":0,"xOwner":"l"}},
	{"id":"b","type":"Rect","bbox":{"y":0,"width":20,"height":10},"owned":{"x":0,"xOwner":"l"}},
	{"id":"l","type":"Align","bbox":{"x":0,"y":0,"width":20,"height":10},"childrenIds":["a","b"],"data":{"alignment":"left","alignX":0}}
]}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(&bytes.Buffer{})
	srv := httptest.NewServer(New(pipeline.NewRunner(nil, nil, logger), logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

type resultBody struct {
	Nodes []struct {
		ID string `json:"id"`
	} `json:"nodes"`
	Positions []struct {
		ID string   `json:"id"`
		X  *float64 `json:"x"`
		Y  *float64 `json:"y"`
	} `json:"positionsToUpdate"`
	Diagnostics []struct {
		RelationID string `json:"relationId"`
	} `json:"diagnostics"`
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRelayout(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/relayout", `{"scene":`+stackScene+`,"indexChanged":0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body resultBody
	decodeBody(t, resp, &body)
	if len(body.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(body.Nodes))
	}
	var found bool
	for _, p := range body.Positions {
		if p.ID == "B" {
			found = true
			if p.X == nil || *p.X != 25 {
				t.Errorf("B x = %v, want 25", p.X)
			}
		}
	}
	if !found {
		t.Errorf("no write for B in %+v", body.Positions)
	}
}

func TestApplyStatusCodes(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{
			name:   "contradiction",
			body:   `{"scene":` + pairScene + `,"relation":{"id":"r","type":"Align","childrenIds":["a","b"],"data":{"alignment":"right"}}}`,
			status: http.StatusConflict,
			code:   "CONTRADICTORY_CONSTRAINT",
		},
		{
			name:   "unknown child",
			body:   `{"scene":` + pairScene + `,"relation":{"id":"g","type":"Group","childrenIds":["a","zz"]}}`,
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "missing relation",
			body:   `{"scene":` + pairScene + `}`,
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "malformed json",
			body:   `{"scene":`,
			status: http.StatusBadRequest,
			code:   "INVALID_FORMAT",
		},
		{
			name:   "unknown field",
			body:   `{"scene":` + pairScene + `,"extra":1}`,
			status: http.StatusBadRequest,
			code:   "INVALID_FORMAT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, "/v1/apply", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorResponse
			decodeBody(t, resp, &body)
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
		})
	}
}

func TestApplyGroup(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/apply", `{"scene":`+pairScene+`,"relation":{"id":"g","type":"Group","childrenIds":["l"]}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body resultBody
	decodeBody(t, resp, &body)
	if n := len(body.Nodes); n != 4 || body.Nodes[3].ID != "g" {
		t.Errorf("nodes = %+v, want g appended", body.Nodes)
	}
}

func TestEditAndMove(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/v1/edit", `{"scene":`+stackScene+`,"id":"S","edit":{"spacing":15}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit status = %d, want 200", resp.StatusCode)
	}
	var body resultBody
	decodeBody(t, resp, &body)
	for _, p := range body.Positions {
		if p.ID == "B" && (p.X == nil || *p.X != 35) {
			t.Errorf("B x = %v, want 35", p.X)
		}
	}

	resp = post(t, srv, "/v1/move", `{"scene":`+stackScene+`,"id":"S","axis":"z","value":1}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("move with bad axis status = %d, want 400", resp.StatusCode)
	}
}

func TestValidate(t *testing.T) {
	srv := newTestServer(t)
	bad := `{"nodes":[
		{"id":"S","type":"Group","bbox":{},"childrenIds":["A"]},
		{"id":"A","type":"Rect","bbox":{"x":0,"y":0,"width":1,"height":1}}
	]}`
	var body validateResponse

	decodeBody(t, post(t, srv, "/v1/validate", `{"scene":`+bad+`}`), &body)
	if body.Valid || body.Error == nil {
		t.Errorf("validate(bad order) = %+v, want invalid", body)
	}

	body = validateResponse{}
	decodeBody(t, post(t, srv, "/v1/validate", `{"scene":`+stackScene+`}`), &body)
	if !body.Valid || body.Nodes != 3 {
		t.Errorf("validate(good) = %+v, want valid with 3 nodes", body)
	}
}

func TestRenderGraph(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/render", `{"scene":`+stackScene+`,"view":"graph","format":"dot"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}

	resp = post(t, srv, "/v1/render", `{"scene":`+stackScene+`,"view":"timeline"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("render(bad view) status = %d, want 400", resp.StatusCode)
	}
}

func TestRejectsOtherContentTypes(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/v1/relayout", "text/plain", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}
}
