// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"math"
	"net/http"

	"github.com/z5labs/sieve/rest"
	"github.com/z5labs/sieve/schema"
)

var imageUpload = schema.Must(schema.New(
	"image_upload",
	schema.File("image", schema.Required()),
))

var imageOut = schema.Must(schema.New(
	"image_out",
	schema.String("Filename"),
	schema.String("Format"),
	schema.Number("Size(kb)"),
))

// UploadImage describes the uploaded image without storing it.
func UploadImage() rest.ApiOption {
	return rest.Operation(
		http.MethodPost,
		rest.BasePath("/post-image"),
		rest.HandlerFunc(uploadImage),
		rest.Input(imageUpload),
		rest.Returns(imageOut),
		rest.OperationID("upload-image"),
		rest.Tags("File"),
		rest.Summary("File the store in the app"),
	)
}

func uploadImage(ctx context.Context, in []*schema.Record) (*schema.Record, error) {
	img := in[0].Upload("image")

	out := schema.NewRecord().
		Set("Filename", img.Filename).
		Set("Format", img.ContentType).
		Set("Size(kb)", kilobytes(img.Size))
	return out, nil
}

// kilobytes rounds to 2 decimals.
func kilobytes(n int64) float64 {
	return math.Round(float64(n)/1024*100) / 100
}
