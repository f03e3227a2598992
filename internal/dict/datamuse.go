package dict

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DatamuseClient is the fallback backend, queried when the primary
// dictionary is down or has no entry.
type DatamuseClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewDatamuseClient(baseURL string, timeout time.Duration) *DatamuseClient {
	return &DatamuseClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *DatamuseClient) Name() string { return "datamuse" }

type datamuseWord struct {
	Word string   `json:"word"`
	Defs []string `json:"defs"`
}

func (c *DatamuseClient) Lookup(ctx context.Context, word string) (*Entry, error) {
	endpoint := fmt.Sprintf("%s/words?sp=%s&md=d&max=1", c.baseURL, url.QueryEscape(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", c.Name(), resp.StatusCode)
	}

	var raw []datamuseWord
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", c.Name(), err)
	}
	if len(raw) == 0 || len(raw[0].Defs) == 0 {
		return nil, fmt.Errorf("%s: %q: %w", c.Name(), word, ErrNotFound)
	}

	entry := &Entry{Word: raw[0].Word, Source: c.Name()}
	for _, def := range raw[0].Defs {
		// Datamuse encodes senses as "pos<TAB>definition".
		entry.Definitions = append(entry.Definitions, strings.Replace(def, "\t", ": ", 1))
		if len(entry.Definitions) >= maxDefinitions {
			break
		}
	}
	return entry, nil
}
