package models

import (
	"encoding/base64"
	"os"
	"regexp"
	"strings"

	"github.com/0w0mewo/eyeballr-cli/internal/eyeballr/constants"
	"github.com/0w0mewo/eyeballr-cli/internal/utils"
)

// DefaultMIME is the media type every upload is labelled with.
const DefaultMIME = "image/png"

var dataURIPattern = regexp.MustCompile(`^data:([A-Za-z\-+/]+);base64,(.+)$`)

// UploadReq is the body of POST /api/v0/upload/{ticket}.
type UploadReq struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
	Size     int64  `json:"-"`
	Checksum string `json:"-"`
}

// GenUploadReq reads fpath fully and wraps its bytes as a PNG data URI.
// Filename is kept exactly as given.
func GenUploadReq(fpath string) (UploadReq, error) {
	content, err := os.ReadFile(fpath)
	if err != nil {
		return UploadReq{}, err
	}

	return UploadReq{
		Filename: fpath,
		Data:     EncodeDataURI(DefaultMIME, content),
		Size:     int64(len(content)),
		Checksum: utils.SHA256ofBytes(content),
	}, nil
}

func EncodeDataURI(mime string, content []byte) string {
	// no line breaks on the wire
	encoded := strings.ReplaceAll(base64.StdEncoding.EncodeToString(content), "\n", "")
	return "data:" + mime + ";base64," + encoded
}

// DecodeDataURI splits a base64 data URI into its media type and raw bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	matches := dataURIPattern.FindStringSubmatch(uri)
	if len(matches) != 3 {
		return "", nil, constants.ErrInvalidDataURI
	}

	content, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return "", nil, constants.ErrInvalidDataURI
	}

	return matches[1], content, nil
}
