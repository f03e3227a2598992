package queue

const TypeSpeechDocument = "speech:document"

// SpeechDocumentPayload asks the worker to regenerate every sentence's
// audio for one document. Regeneration always covers the whole document;
// previously successful artifacts are overwritten.
type SpeechDocumentPayload struct {
	DocumentID string `json:"document_id"`
	Voice      string `json:"voice"`
	Rate       string `json:"rate"`
}
