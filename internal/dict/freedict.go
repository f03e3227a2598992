package dict

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// FreeDictClient queries the dictionaryapi.dev REST API.
type FreeDictClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewFreeDictClient(baseURL string, timeout time.Duration) *FreeDictClient {
	return &FreeDictClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *FreeDictClient) Name() string { return "dictionaryapi.dev" }

type freeDictEntry struct {
	Word      string `json:"word"`
	Phonetic  string `json:"phonetic"`
	Phonetics []struct {
		Text string `json:"text"`
	} `json:"phonetics"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// maxDefinitions caps how many senses a lookup keeps per word.
const maxDefinitions = 5

func (c *FreeDictClient) Lookup(ctx context.Context, word string) (*Entry, error) {
	endpoint := fmt.Sprintf("%s/api/v2/entries/en/%s", c.baseURL, url.PathEscape(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %q: %w", c.Name(), word, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", c.Name(), resp.StatusCode)
	}

	var raw []freeDictEntry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", c.Name(), err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: %q: %w", c.Name(), word, ErrNotFound)
	}

	first := raw[0]
	entry := &Entry{Word: first.Word, Phonetic: first.Phonetic, Source: c.Name()}
	if entry.Phonetic == "" {
		for _, p := range first.Phonetics {
			if p.Text != "" {
				entry.Phonetic = p.Text
				break
			}
		}
	}
	for _, m := range first.Meanings {
		for _, d := range m.Definitions {
			entry.Definitions = append(entry.Definitions, fmt.Sprintf("%s: %s", m.PartOfSpeech, d.Definition))
			if len(entry.Definitions) >= maxDefinitions {
				return entry, nil
			}
		}
	}
	if len(entry.Definitions) == 0 {
		return nil, fmt.Errorf("%s: %q: %w", c.Name(), word, ErrNotFound)
	}
	return entry, nil
}
