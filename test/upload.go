package test

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

// UploadFile builds a multipart body with content as the form file "file".
//
// The body is returned with the headers for the HTTP request.
func UploadFile(t *testing.T, name string, content []byte) (*bytes.Buffer, map[string]string) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	w, err := mw.CreateFormFile("file", name)
	if err != nil {
		assert.FailNow(t, err.Error())
	}

	if _, err := w.Write(content); err != nil {
		assert.FailNow(t, err.Error())
	}

	mw.Close()

	return body, map[string]string{"Content-Type": mw.FormDataContentType()}
}
