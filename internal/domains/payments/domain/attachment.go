package domain

import "strings"

// Attachment is a file carried by an inbound message.
type Attachment struct {
	Name string
	URL  string
}

var proofExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}

// ClassifyProof returns the first attachment whose name ends, case-insensitively,
// with an allowed image extension.
func ClassifyProof(attachments []Attachment) (Attachment, bool) {
	for _, att := range attachments {
		if IsProofImage(att.Name) {
			return att, true
		}
	}
	return Attachment{}, false
}

// IsProofImage reports whether a file name qualifies as proof of payment.
func IsProofImage(name string) bool {
	name = strings.ToLower(name)
	for _, ext := range proofExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
