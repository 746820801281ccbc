// Package core provides the shared result vocabulary for storefront-e2e:
// test statuses, check error categories and attachment kinds.
package core

import (
	"path"
	"strings"
)

// AttachmentKind decides how an attachment is rendered.
type AttachmentKind int

const (
	KindGeneric AttachmentKind = iota // plain download link
	KindImage                         // inline thumbnail
)

// Common attachment names
const (
	AttachmentScreenshot = "screenshot"
	AttachmentInvoice    = "invoice"
	AttachmentResponse   = "response"
)

// Common content types
const (
	ContentTypePNG  = "image/png"
	ContentTypeJSON = "application/json"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
}

// KindOf classifies a link or file name by its extension.
func KindOf(name string) AttachmentKind {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(name, `\`, "/")))
	if imageExtensions[ext] {
		return KindImage
	}
	return KindGeneric
}
