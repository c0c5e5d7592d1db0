// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"github.com/huangsam/vcxscore/core/extract"
)

// Workspace defines the filesystem operations of one scoring pass.
// This allows the pipeline to be tested without a real capture folder.
type Workspace interface {
	// Locate returns the first folder below root whose path relative to
	// root contains name. Folders are visited in lexical order.
	Locate(root, name string) (string, error)

	// ListXML returns the analyzer XML files of folder in sorted order.
	ListXML(folder string) ([]string, error)

	// OpenXML parses the analyzer XML file at path.
	OpenXML(path string) (extract.Document, error)
}
