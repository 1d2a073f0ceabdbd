// Package source enumerates invoice documents under a filesystem root.
//
// Loose .xml files are yielded as found. Each .zip archive is opened and
// its .xml entries are yielded as if they lived in the tree at that point.
// Archives inside archives are not opened. Symbolic links to files are
// followed; links to directories are not.
package source

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/rezonia/satr/internal/model"
)

// File suffixes recognized by the walker, compared case-insensitively
const (
	DocumentSuffix = ".xml"
	ArchiveSuffix  = ".zip"
)

// Document is the raw content of one document found under the root
type Document struct {
	// Path of the file on disk (the archive path for archived documents)
	Path string
	// Entry name inside the archive, empty for loose documents
	Entry string
	// Content is the full document text
	Content []byte
}

// Name identifies the document for logs and listings
func (d Document) Name() string {
	if d.Entry == "" {
		return d.Path
	}
	return d.Path + "!" + d.Entry
}

// IsDocument reports whether name carries the document suffix
func IsDocument(name string) bool {
	return hasSuffixFold(name, DocumentSuffix)
}

// IsArchive reports whether name carries the archive suffix
func IsArchive(name string) bool {
	return hasSuffixFold(name, ArchiveSuffix)
}

func hasSuffixFold(name, suffix string) bool {
	return len(name) >= len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix)
}

// Walk returns a sequence over every document under root, in lexical
// directory order. The first traversal failure is yielded as a
// *model.ExtractionError and ends the sequence. Ranging over the result
// again walks the tree again.
func Walk(root string) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		stopped := false
		emit := func(doc Document, err error) error {
			if !yield(doc, err) {
				stopped = true
				return fs.SkipAll
			}
			return nil
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return model.NewExtractionError(path, "failed to read path", err)
			}
			if d.Type()&fs.ModeSymlink != 0 && (IsDocument(d.Name()) || IsArchive(d.Name())) {
				info, err := os.Stat(path)
				if err != nil {
					return model.NewExtractionError(path, "failed to resolve link", err)
				}
				if !info.Mode().IsRegular() {
					return nil
				}
			} else if !d.Type().IsRegular() {
				return nil
			}

			switch {
			case IsDocument(d.Name()):
				content, err := os.ReadFile(path)
				if err != nil {
					return model.NewExtractionError(path, "failed to read document", err)
				}
				return emit(Document{Path: path, Content: content}, nil)

			case IsArchive(d.Name()):
				docs, err := ReadArchive(path)
				if err != nil {
					return err
				}
				for _, doc := range docs {
					if err := emit(doc, nil); err != nil {
						return err
					}
				}
			}
			return nil
		})

		if err != nil && !stopped {
			yield(Document{}, err)
		}
	}
}

// Collect drains the walk into a slice, failing on the first traversal error
func Collect(root string) ([]Document, error) {
	var docs []Document
	for doc, err := range Walk(root) {
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
