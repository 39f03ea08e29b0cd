package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"

	"github.com/eximroyals/storefront/internal/domain"
	apperrors "github.com/eximroyals/storefront/pkg/errors"
)

type field struct {
	name, value string
}

// fileParts maps a part name to an optional upload. Nil uploads are skipped.
type fileParts map[string]*domain.Upload

// encodeForm builds a multipart body from fields in order, then the files
// sorted by part name.
func encodeForm(fields []field, files fileParts) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", apperrors.Internal(fmt.Errorf("write field %s: %w", f.name, err))
		}
	}

	names := make([]string, 0, len(files))
	for name, up := range files {
		if up != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writeFile(mw, name, files[name]); err != nil {
			return nil, "", apperrors.Internal(err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", apperrors.Internal(fmt.Errorf("close multipart body: %w", err))
	}
	return &buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFile(mw *multipart.Writer, name string, up *domain.Upload) error {
	src, err := up.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", name, err)
	}
	defer func() { _ = src.Close() }()

	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(up.Filename)))
	h.Set("Content-Type", contentType)

	dst, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy upload %s: %w", name, err)
	}
	return nil
}
