// Package docs retrieves the school calendar document from the Google Docs
// API.
//
// The package handles:
//   - OAuth2-authenticated document retrieval (token cache via internal/google)
//   - Extraction of the document ID from the URL shapes users paste
//   - Conversion of the document structure to plain text for the parser
package docs
