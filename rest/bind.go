// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"

	"github.com/z5labs/sieve/schema"

	"github.com/elnormous/contenttype"
	"github.com/go-chi/chi/v5"
	"github.com/z5labs/sdk-go/try"
)

// DefaultMaxUploadBytes is the upload size limit used when neither
// [MaxUploadBytes] nor [MaxUploadSize] are set.
const DefaultMaxUploadBytes = 10 << 20

const (
	maxFormValueBytes = 1 << 20
	maxFormBytes      = 10 << 20
	maxFormParts      = 1000
)

var (
	jsonMediaType       = contenttype.NewMediaType("application/json")
	urlencodedMediaType = contenttype.NewMediaType("application/x-www-form-urlencoded")
	multipartMediaType  = contenttype.NewMediaType("multipart/form-data")
)

var (
	errBodyNotObject    = errors.New("request body must be a JSON object")
	errBodyTrailingData = errors.New("request body must hold a single JSON value")
)

// rawRequest holds every source of a request once it has been parsed.
type rawRequest struct {
	r     *http.Request
	body  map[string]any
	form  url.Values
	files map[string]schema.Upload
}

func readRequest(r *http.Request, inputs []*schema.Schema, uploadLimit int64) (*rawRequest, error) {
	req := &rawRequest{r: r}

	var needsBody, needsForm bool
	for _, in := range inputs {
		for _, src := range in.Sources() {
			switch src {
			case schema.InBody:
				needsBody = true
			case schema.InForm, schema.InFile:
				needsForm = true
			}
		}
	}

	var err error
	switch {
	case needsBody:
		req.body, err = readJSON(r)
	case needsForm:
		req.form, req.files, err = readForm(r, uploadLimit)
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func readJSON(r *http.Request) (_ map[string]any, err error) {
	defer try.Close(&err, r.Body)

	b, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return map[string]any{}, nil
	}

	mt, err := contenttype.GetMediaType(r)
	if err != nil || !mt.Matches(jsonMediaType) {
		return nil, InvalidContentTypeError{ContentType: r.Header.Get("Content-Type")}
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	err = dec.Decode(&v)
	if err != nil {
		return nil, err
	}
	err = dec.Decode(new(any))
	if !errors.Is(err, io.EOF) {
		return nil, errBodyTrailingData
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errBodyNotObject
	}
	return m, nil
}

func readForm(r *http.Request, uploadLimit int64) (url.Values, map[string]schema.Upload, error) {
	files := make(map[string]schema.Upload)
	if r.ContentLength == 0 && r.Header.Get("Content-Type") == "" {
		return url.Values{}, files, nil
	}

	mt, err := contenttype.GetMediaType(r)
	if err != nil {
		return nil, nil, InvalidContentTypeError{ContentType: r.Header.Get("Content-Type")}
	}

	switch {
	case mt.Matches(urlencodedMediaType):
		err := r.ParseForm()
		if err != nil {
			return nil, nil, err
		}
		return r.PostForm, files, nil
	case mt.Matches(multipartMediaType):
		form, err := readMultipart(r, uploadLimit, files)
		if err != nil {
			return nil, nil, err
		}
		return form, files, nil
	default:
		return nil, nil, InvalidContentTypeError{ContentType: r.Header.Get("Content-Type")}
	}
}

// readMultipart streams every part of a multipart body. Uploaded files
// are never buffered, only their size is kept.
func readMultipart(r *http.Request, uploadLimit int64, files map[string]schema.Upload) (url.Values, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}

	mp := &multipartForm{
		uploadLimit: uploadLimit,
		remaining:   maxFormBytes,
		form:        make(url.Values),
		files:       files,
	}
	for parts := 0; ; parts++ {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return mp.form, nil
		}
		if err != nil {
			return nil, err
		}
		if parts == maxFormParts {
			part.Close()
			return nil, FormTooLargeError{Reason: fmt.Sprintf("more than %d parts", maxFormParts)}
		}

		err = mp.readPart(part)
		if err != nil {
			return nil, err
		}
	}
}

// multipartForm accumulates the parts of a multipart body. remaining is
// the budget of non-file bytes left for the whole form.
type multipartForm struct {
	uploadLimit int64
	remaining   int64
	form        url.Values
	files       map[string]schema.Upload
}

func (mp *multipartForm) readPart(part *multipart.Part) (err error) {
	defer try.Close(&err, part)

	name := part.FormName()
	if part.FileName() == "" {
		return mp.readValue(name, part)
	}

	n, err := io.Copy(io.Discard, io.LimitReader(part, mp.uploadLimit+1))
	if err != nil {
		return err
	}
	if n > mp.uploadLimit {
		return UploadTooLargeError{Field: name, Limit: mp.uploadLimit}
	}
	if _, exists := mp.files[name]; exists {
		return nil
	}

	mp.files[name] = schema.Upload{
		Filename:    part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
		Size:        n,
	}
	return nil
}

func (mp *multipartForm) readValue(name string, r io.Reader) error {
	limit := min(int64(maxFormValueBytes), mp.remaining)

	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return err
	}
	if int64(len(b)) > limit {
		if limit < maxFormValueBytes {
			return FormTooLargeError{Reason: fmt.Sprintf("form values exceed %d bytes in total", maxFormBytes)}
		}
		return FormTooLargeError{Reason: fmt.Sprintf("value %q exceeds %d bytes", name, maxFormValueBytes)}
	}

	mp.remaining -= int64(len(b))
	mp.form.Add(name, string(b))
	return nil
}

// values collects the raw value of every field of in from the source
// the field declares. Absent values are left out entirely.
//
// When the body is embedded, only inputs declaring body fields read the
// object under their schema name. If that value is not an object, the
// returned violation is the only one reported for in.
func (req *rawRequest) values(in *schema.Schema, embed bool) (schema.Values, *schema.Violation) {
	body := req.body
	if embed && slices.Contains(in.Sources(), schema.InBody) {
		body = nil
		v, ok := req.body[in.Name()]
		if ok && v != nil {
			m, isObject := v.(map[string]any)
			if !isObject {
				return nil, &schema.Violation{
					Field:    in.Name(),
					Location: schema.InBody,
					Kind:     schema.RuleTypeMismatch,
					Message:  "value is not a valid object",
				}
			}
			body = m
		}
	}

	vals := make(schema.Values)
	for _, fd := range in.Fields() {
		wire := fd.WireName()

		switch fd.In() {
		case schema.InPath:
			v := chi.URLParam(req.r, wire)
			if v != "" {
				vals.Set(schema.InPath, wire, v)
			}
		case schema.InQuery:
			vs, ok := req.r.URL.Query()[wire]
			if ok && len(vs) > 0 {
				vals.Set(schema.InQuery, wire, vs[0])
			}
		case schema.InHeader:
			vs := req.r.Header.Values(wire)
			if len(vs) > 0 {
				vals.Set(schema.InHeader, wire, vs[0])
			}
		case schema.InCookie:
			c, err := req.r.Cookie(wire)
			if err == nil {
				vals.Set(schema.InCookie, wire, c.Value)
			}
		case schema.InForm:
			vs, ok := req.form[wire]
			if ok && len(vs) > 0 {
				vals.Set(schema.InForm, wire, vs[0])
			}
		case schema.InFile:
			f, ok := req.files[wire]
			if ok {
				vals.Set(schema.InFile, wire, f)
			}
		case schema.InBody:
			v, ok := body[wire]
			if ok {
				vals.Set(schema.InBody, wire, v)
			}
		}
	}
	return vals, nil
}
