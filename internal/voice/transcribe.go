package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/okozlov/quill/internal/config"
)

// ErrNoCandidates indicates the service answered but produced no
// transcript candidates.
var ErrNoCandidates = errors.New("transcription returned no candidates")

// Transcriber uploads audio blobs to the transcription endpoint. The
// endpoint is REST multipart, not GraphQL: audio in an uploaded_file
// form field, decoding parameters as query parameters.
type Transcriber struct {
	endpoint string
	params   config.TranscribeParams
	http     *http.Client
	log      *zap.Logger
}

func NewTranscriber(endpoint string, params config.TranscribeParams, log *zap.Logger) *Transcriber {
	if log == nil {
		log = zap.NewNop()
	}
	return &Transcriber{
		endpoint: endpoint,
		params:   params,
		http:     &http.Client{Timeout: 60 * time.Second},
		log:      log,
	}
}

type transcribeResponse struct {
	Candidates []string `json:"responseBodyBatch"`
}

// Transcribe uploads one audio blob and returns the candidate
// transcripts, best first.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) ([]string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("uploaded_file", "recording.ogg")
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("failed to write audio blob: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	query := url.Values{}
	query.Set("lang", t.params.Lang)
	query.Set("temperature", strconv.FormatFloat(t.params.Temperature, 'f', -1, 64))
	query.Set("beam_size", strconv.Itoa(t.params.BeamSize))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		t.endpoint+"?"+query.Encode(),
		&body,
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("transcription rejected: status code %d", resp.StatusCode)
	}

	var parsed transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode transcription response: %w", err)
	}

	if len(parsed.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	return parsed.Candidates, nil
}
