package source

import (
	"archive/zip"
	"io"

	"github.com/rezonia/satr/internal/model"
)

// ReadArchive opens a zip archive and reads every document entry fully into
// memory. The archive is closed before returning, on success and on error.
// Entries that are archives themselves are skipped, not opened.
func ReadArchive(path string) ([]Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, model.NewExtractionError(path, "failed to open archive", err)
	}
	defer r.Close()

	var docs []Document
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !IsDocument(f.Name) {
			continue
		}

		content, err := readEntry(f)
		if err != nil {
			return nil, model.NewExtractionError(path, "failed to read archive entry "+f.Name, err)
		}
		docs = append(docs, Document{Path: path, Entry: f.Name, Content: content})
	}

	return docs, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
