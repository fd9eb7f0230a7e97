package keyboard

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/qmkwire/pkg/errors"
)

// ReadJSON decodes a keyboard.json document from r.
//
// ReadJSON only checks that the input is well-formed JSON of the expected
// shape. Missing sections are reported later, by the step that needs them,
// so a document without matrix_pins can still be listed or inspected.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "decode keyboard.json")
	}
	return &doc, nil
}

// ImportJSON reads the keyboard.json file at path.
// A missing file yields FILE_NOT_FOUND, other read failures IO_ERROR.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read keyboard file")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read keyboard file")
	}
	defer f.Close()

	doc, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
