package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Pathstore keeps documents in a pathstore HTTP KV service. Documents live
// at documents/<user>/<doc>; a hash index at documents_by_hash/<user>/<hash>/<doc>
// backs duplicate detection.
type Pathstore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewPathstore(baseURL, apiKey string) *Pathstore {
	return &Pathstore{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// nodeRequest is the body for PUT /kv/{key}.
type nodeRequest struct {
	Value      any     `json:"value"`
	MemoryType string  `json:"memory_type,omitempty"`
	Salience   float64 `json:"salience,omitempty"`
	Source     string  `json:"source,omitempty"`
}

// nodeResponse is a node from GET /kv/{key} or a prefix scan.
type nodeResponse struct {
	Key   string          `json:"key_path"`
	Value json.RawMessage `json:"value"`
}

type hashEntry struct {
	DocID string `json:"doc_id"`
}

func docKey(userID, docID string) string {
	return "documents/" + url.PathEscape(userID) + "/" + url.PathEscape(docID)
}

func hashKey(userID, hash string) string {
	return "documents_by_hash/" + url.PathEscape(userID) + "/" + hash
}

func (p *Pathstore) Put(ctx context.Context, doc Document) error {
	if err := ValidateKey(doc.UserID, doc.ID); err != nil {
		return err
	}
	existing, err := p.Get(ctx, doc.UserID, doc.ID)
	switch {
	case err == nil:
		stamp(&doc, &existing)
	case errors.Is(err, ErrNotFound):
		stamp(&doc, nil)
	default:
		return err
	}

	if err := p.putNode(ctx, docKey(doc.UserID, doc.ID), nodeRequest{
		Value:      doc,
		MemoryType: "document",
		Salience:   0.5,
		Source:     "argus:" + doc.ID,
	}); err != nil {
		return err
	}
	if existing.ContentHash != "" && existing.ContentHash != doc.ContentHash {
		if err := p.deleteNode(ctx, hashKey(doc.UserID, existing.ContentHash)+"/"+url.PathEscape(doc.ID)); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	if doc.ContentHash == "" {
		return nil
	}
	return p.putNode(ctx, hashKey(doc.UserID, doc.ContentHash)+"/"+url.PathEscape(doc.ID), nodeRequest{
		Value:      hashEntry{DocID: doc.ID},
		MemoryType: "metacognitive",
		Salience:   0.1,
		Source:     "argus:" + doc.ID,
	})
}

func (p *Pathstore) Get(ctx context.Context, userID, docID string) (Document, error) {
	if err := ValidateKey(userID, docID); err != nil {
		return Document{}, err
	}
	node, err := p.getNode(ctx, docKey(userID, docID))
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(node.Value, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func (p *Pathstore) List(ctx context.Context, userID string) ([]Document, error) {
	if err := validSegment("user_id", userID); err != nil {
		return nil, err
	}
	nodes, err := p.listChildren(ctx, "documents/"+url.PathEscape(userID), 0)
	if err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(nodes))
	for _, n := range nodes {
		var doc Document
		if err := json.Unmarshal(n.Value, &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", n.Key, err)
		}
		out = append(out, doc.Summary())
	}
	sortNewestFirst(out)
	return out, nil
}

func (p *Pathstore) Delete(ctx context.Context, userID, docID string) error {
	doc, err := p.Get(ctx, userID, docID)
	if err != nil {
		return err
	}
	if err := p.deleteNode(ctx, docKey(userID, docID)); err != nil {
		return err
	}
	if doc.ContentHash != "" {
		err := p.deleteNode(ctx, hashKey(userID, doc.ContentHash)+"/"+url.PathEscape(docID))
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

func (p *Pathstore) FindByHash(ctx context.Context, userID, hash string) (string, bool, error) {
	if hash == "" {
		return "", false, nil
	}
	nodes, err := p.listChildren(ctx, hashKey(userID, hash), 1)
	if err != nil {
		return "", false, err
	}
	if len(nodes) == 0 {
		return "", false, nil
	}
	var entry hashEntry
	if err := json.Unmarshal(nodes[0].Value, &entry); err != nil {
		return "", false, fmt.Errorf("decode hash entry: %w", err)
	}
	return entry.DocID, true, nil
}

// Close releases idle connections.
func (p *Pathstore) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

func (p *Pathstore) putNode(ctx context.Context, key string, req nodeRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal node: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, p.baseURL+"/kv/"+key, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.do(httpReq)
	if err != nil {
		return fmt.Errorf("put node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError("put node "+key, resp)
	}
	return nil
}

func (p *Pathstore) getNode(ctx context.Context, key string) (*nodeResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/kv/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("get node "+key, resp)
	}

	var node nodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&node); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	return &node, nil
}

func (p *Pathstore) deleteNode(ctx context.Context, key string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, p.baseURL+"/kv/"+key, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := p.do(httpReq)
	if err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusError("delete node "+key, resp)
	}
	return nil
}

// listChildren does a prefix scan under key. A limit of zero means no limit.
func (p *Pathstore) listChildren(ctx context.Context, key string, limit int) ([]nodeResponse, error) {
	u := p.baseURL + "/kv/" + key + "/*"
	if limit > 0 {
		u += "?limit=" + strconv.Itoa(limit)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list children "+key, resp)
	}

	var result struct {
		Nodes []nodeResponse `json:"nodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode children: %w", err)
	}
	return result.Nodes, nil
}

func (p *Pathstore) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	return p.httpClient.Do(req)
}

// statusError reads a short body excerpt; 429 and 5xx are retryable.
func statusError(op string, resp *http.Response) error {
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(respBody))
}
