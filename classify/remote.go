package classify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Remote is a client for an external classifier service, used as both
// Judge and TopicExtractor. The service gets an item's text and returns
// a verdict and/or topic labels.
type Remote struct {
	Client *http.Client
	// eg "http://localhost:9970"
	Location string
}

func NewRemote(location string) *Remote {
	return &Remote{
		Client:   &http.Client{Timeout: 30 * time.Second},
		Location: location,
	}
}

type judgeRequest struct {
	Section string `json:"section,omitempty"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type judgeResponse struct {
	Verdict    string `json:"verdict"` // "KEEP" or "DROP"
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

func (r *Remote) Judge(section, title, summary string) (Verdict, error) {
	var resp judgeResponse
	err := r.post("/api/judge", &judgeRequest{Section: section, Title: title, Summary: summary}, &resp)
	if err != nil {
		return Verdict{}, err
	}
	if resp.Verdict != "KEEP" && resp.Verdict != "DROP" {
		return Verdict{}, fmt.Errorf("classifier returned bad verdict %q", resp.Verdict)
	}
	return Verdict{
		Keep:       resp.Verdict == "KEEP",
		Confidence: resp.Confidence,
		Reason:     resp.Reason,
	}, nil
}

type topicsResponse struct {
	Topics []string `json:"topics"`
}

func (r *Remote) Topics(title, summary string) ([]string, error) {
	var resp topicsResponse
	err := r.post("/api/topics", &judgeRequest{Title: title, Summary: summary}, &resp)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(resp.Topics))
	for _, t := range resp.Topics {
		t = NormalizeLabel(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *Remote) post(path string, req interface{}, out interface{}) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}

	client := r.Client
	if client == nil {
		client = &http.Client{}
	}

	resp, err := client.Post(r.Location+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("HTTP Post failed: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP Error: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
